package component

// Builtin component kinds
const (
	KindSection     = "Section"
	KindColumn      = "Column"
	KindHero        = "Hero"
	KindHeadline    = "Headline"
	KindParagraph   = "Paragraph"
	KindImage       = "Image"
	KindButton      = "Button"
	KindForm        = "Form"
	KindVideo       = "Video"
	KindFeatureGrid = "FeatureGrid"
	KindDivider     = "Divider"
	KindSpacer      = "Spacer"
)

// SectionProps styles a full-width page section
type SectionProps struct {
	Background string `json:"background,omitempty"`
	Accent     string `json:"accent,omitempty"`
	Padding    string `json:"padding,omitempty"`
	Anchor     string `json:"anchor,omitempty"`
}

func (*SectionProps) Kind() string { return KindSection }

// ColumnProps sizes a column inside a section
type ColumnProps struct {
	// Width in twelfths of the row, 0 means auto
	Width int `json:"width,omitempty"`
}

func (*ColumnProps) Kind() string { return KindColumn }

// HeroProps is the above-the-fold banner block
type HeroProps struct {
	Title       string `json:"title,omitempty"`
	Subtitle    string `json:"subtitle,omitempty"`
	ButtonLabel string `json:"buttonLabel,omitempty"`
	ButtonHref  string `json:"buttonHref,omitempty"`
	Image       string `json:"image,omitempty"`
}

func (*HeroProps) Kind() string { return KindHero }

// HeadlineProps renders a heading at the given level (1-6)
type HeadlineProps struct {
	Text  string `json:"text,omitempty"`
	Level int    `json:"level,omitempty"`
}

func (*HeadlineProps) Kind() string { return KindHeadline }

type ParagraphProps struct {
	Text string `json:"text,omitempty"`
}

func (*ParagraphProps) Kind() string { return KindParagraph }

type ImageProps struct {
	Src   string `json:"src,omitempty"`
	Alt   string `json:"alt,omitempty"`
	Width string `json:"width,omitempty"`
}

func (*ImageProps) Kind() string { return KindImage }

type ButtonProps struct {
	Label string `json:"label,omitempty"`
	Href  string `json:"href,omitempty"`
	Style string `json:"style,omitempty"`
}

func (*ButtonProps) Kind() string { return KindButton }

// FormField is a single input inside a Form component
type FormField struct {
	Name      string `json:"name"`
	Label     string `json:"label,omitempty"`
	InputType string `json:"inputType,omitempty"`
	Required  bool   `json:"required,omitempty"`
}

type FormProps struct {
	Action      string      `json:"action,omitempty"`
	SubmitLabel string      `json:"submitLabel,omitempty"`
	Fields      []FormField `json:"fields,omitempty"`
}

func (*FormProps) Kind() string { return KindForm }

type VideoProps struct {
	URL    string `json:"url,omitempty"`
	Poster string `json:"poster,omitempty"`
}

func (*VideoProps) Kind() string { return KindVideo }

// Feature is one cell of a FeatureGrid
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type FeatureGridProps struct {
	Columns  int       `json:"columns,omitempty"`
	Features []Feature `json:"features,omitempty"`
}

func (*FeatureGridProps) Kind() string { return KindFeatureGrid }

type DividerProps struct{}

func (*DividerProps) Kind() string { return KindDivider }

type SpacerProps struct {
	Height string `json:"height,omitempty"`
}

func (*SpacerProps) Kind() string { return KindSpacer }

func init() {
	RegisterProps(KindSection, func() Props { return &SectionProps{} })
	RegisterProps(KindColumn, func() Props { return &ColumnProps{} })
	RegisterProps(KindHero, func() Props { return &HeroProps{} })
	RegisterProps(KindHeadline, func() Props { return &HeadlineProps{} })
	RegisterProps(KindParagraph, func() Props { return &ParagraphProps{} })
	RegisterProps(KindImage, func() Props { return &ImageProps{} })
	RegisterProps(KindButton, func() Props { return &ButtonProps{} })
	RegisterProps(KindForm, func() Props { return &FormProps{} })
	RegisterProps(KindVideo, func() Props { return &VideoProps{} })
	RegisterProps(KindFeatureGrid, func() Props { return &FeatureGridProps{} })
	RegisterProps(KindDivider, func() Props { return &DividerProps{} })
	RegisterProps(KindSpacer, func() Props { return &SpacerProps{} })
}
