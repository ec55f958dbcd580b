package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/pagecraft/funnels/common/component"
)

func registerBuiltins(r *Renderer) {
	r.Register(component.KindSection, renderSection)
	r.Register(component.KindColumn, renderColumn)
	r.Register(component.KindHero, renderHero)
	r.Register(component.KindHeadline, renderHeadline)
	r.Register(component.KindParagraph, renderParagraph)
	r.Register(component.KindImage, renderImage)
	r.Register(component.KindButton, renderButton)
	r.Register(component.KindForm, renderForm)
	r.Register(component.KindVideo, renderVideo)
	r.Register(component.KindFeatureGrid, renderFeatureGrid)
	r.Register(component.KindDivider, renderDivider)
	r.Register(component.KindSpacer, renderSpacer)
}

// propsAs returns props as *T, falling back to the zero value when props is
// missing or of an unexpected shape. Keeps render funcs total.
func propsAs[T any](props component.Props) *T {
	if p, ok := any(props).(*T); ok && p != nil {
		return p
	}
	return new(T)
}

func esc(s string) string { return html.EscapeString(s) }

func joined(children []string) string { return strings.Join(children, "") }

func renderSection(props component.Props, children []string) string {
	p := propsAs[component.SectionProps](props)

	var b strings.Builder
	b.WriteString(`<section class="section"`)
	if p.Anchor != "" {
		fmt.Fprintf(&b, ` id=%q`, esc(p.Anchor))
	}
	style := sectionStyle(p)
	if style != "" {
		fmt.Fprintf(&b, ` style=%q`, style)
	}
	b.WriteString(`><div class="row">`)
	b.WriteString(joined(children))
	b.WriteString(`</div></section>`)
	return b.String()
}

func sectionStyle(p *component.SectionProps) string {
	var parts []string
	if p.Background != "" {
		parts = append(parts, "background:"+esc(p.Background))
	}
	if p.Accent != "" {
		parts = append(parts, "--accent:"+esc(p.Accent))
	}
	if p.Padding != "" {
		parts = append(parts, "padding:"+esc(p.Padding))
	}
	return strings.Join(parts, ";")
}

func renderColumn(props component.Props, children []string) string {
	p := propsAs[component.ColumnProps](props)

	width := p.Width
	if width < 1 || width > 12 {
		width = 12
	}
	return fmt.Sprintf(`<div class="col col-%d">%s</div>`, width, joined(children))
}

func renderHero(props component.Props, children []string) string {
	p := propsAs[component.HeroProps](props)

	var b strings.Builder
	b.WriteString(`<section class="hero">`)
	if p.Title != "" {
		fmt.Fprintf(&b, `<h1>%s</h1>`, esc(p.Title))
	}
	if p.Subtitle != "" {
		fmt.Fprintf(&b, `<p class="subtitle">%s</p>`, esc(p.Subtitle))
	}
	if p.Image != "" {
		fmt.Fprintf(&b, `<img src=%q alt="">`, esc(p.Image))
	}
	if p.ButtonLabel != "" {
		href := p.ButtonHref
		if href == "" {
			href = "#"
		}
		fmt.Fprintf(&b, `<a class="btn btn-primary" href=%q>%s</a>`, esc(href), esc(p.ButtonLabel))
	}
	b.WriteString(joined(children))
	b.WriteString(`</section>`)
	return b.String()
}

func renderHeadline(props component.Props, _ []string) string {
	p := propsAs[component.HeadlineProps](props)

	level := p.Level
	if level < 1 || level > 6 {
		level = 2
	}
	return fmt.Sprintf(`<h%d>%s</h%d>`, level, esc(p.Text), level)
}

func renderParagraph(props component.Props, _ []string) string {
	p := propsAs[component.ParagraphProps](props)
	return fmt.Sprintf(`<p>%s</p>`, esc(p.Text))
}

func renderImage(props component.Props, _ []string) string {
	p := propsAs[component.ImageProps](props)

	var b strings.Builder
	fmt.Fprintf(&b, `<img src=%q alt=%q`, esc(p.Src), esc(p.Alt))
	if p.Width != "" {
		fmt.Fprintf(&b, ` width=%q`, esc(p.Width))
	}
	b.WriteString(`>`)
	return b.String()
}

func renderButton(props component.Props, _ []string) string {
	p := propsAs[component.ButtonProps](props)

	style := p.Style
	if style == "" {
		style = "primary"
	}
	href := p.Href
	if href == "" {
		href = "#"
	}
	return fmt.Sprintf(`<a class="btn btn-%s" href=%q>%s</a>`, esc(style), esc(href), esc(p.Label))
}

func renderForm(props component.Props, _ []string) string {
	p := propsAs[component.FormProps](props)

	var b strings.Builder
	fmt.Fprintf(&b, `<form method="post" action=%q>`, esc(p.Action))
	for _, f := range p.Fields {
		inputType := f.InputType
		if inputType == "" {
			inputType = "text"
		}
		if f.Label != "" {
			fmt.Fprintf(&b, `<label for=%q>%s</label>`, esc(f.Name), esc(f.Label))
		}
		fmt.Fprintf(&b, `<input type=%q id=%q name=%q`, esc(inputType), esc(f.Name), esc(f.Name))
		if f.Required {
			b.WriteString(` required`)
		}
		b.WriteString(`>`)
	}
	label := p.SubmitLabel
	if label == "" {
		label = "Submit"
	}
	fmt.Fprintf(&b, `<button type="submit">%s</button></form>`, esc(label))
	return b.String()
}

func renderVideo(props component.Props, _ []string) string {
	p := propsAs[component.VideoProps](props)

	var b strings.Builder
	b.WriteString(`<video controls`)
	if p.Poster != "" {
		fmt.Fprintf(&b, ` poster=%q`, esc(p.Poster))
	}
	fmt.Fprintf(&b, `><source src=%q></video>`, esc(p.URL))
	return b.String()
}

func renderFeatureGrid(props component.Props, _ []string) string {
	p := propsAs[component.FeatureGridProps](props)

	cols := p.Columns
	if cols < 1 {
		cols = 3
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="features features-%d">`, cols)
	for _, f := range p.Features {
		b.WriteString(`<div class="feature">`)
		if f.Icon != "" {
			fmt.Fprintf(&b, `<span class="icon">%s</span>`, esc(f.Icon))
		}
		fmt.Fprintf(&b, `<h3>%s</h3>`, esc(f.Title))
		if f.Description != "" {
			fmt.Fprintf(&b, `<p>%s</p>`, esc(f.Description))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderDivider(_ component.Props, _ []string) string {
	return `<hr>`
}

func renderSpacer(props component.Props, _ []string) string {
	p := propsAs[component.SpacerProps](props)

	height := p.Height
	if height == "" {
		height = "2rem"
	}
	return fmt.Sprintf(`<div class="spacer" style="height:%s"></div>`, esc(height))
}
