package render

import (
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecraft/funnels/common/component"
)

func TestMain(m *testing.M) {
	code := m.Run()
	snaps.Clean(m)
	os.Exit(code)
}

// testLogger records warnings so tests can assert on unknown-kind handling
type testLogger struct {
	warnings []string
}

func (l *testLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.warnings = append(l.warnings, msg)
}

func landingTree(t *testing.T) component.Node {
	t.Helper()

	return component.Node{
		Type: component.KindSection,
		Props: &component.SectionProps{
			Background: "#f8fafc",
			Accent:     "#2563eb",
			Anchor:     "top",
		},
		Children: []component.Node{
			{
				Type:  component.KindColumn,
				Props: &component.ColumnProps{Width: 7},
				Children: []component.Node{
					{
						Type: component.KindHero,
						Props: &component.HeroProps{
							Title:       "Grow Your List",
							Subtitle:    "A free 5-day email course",
							ButtonLabel: "Get the Course",
							ButtonHref:  "/signup",
						},
					},
					{
						Type:  component.KindParagraph,
						Props: &component.ParagraphProps{Text: "No spam, unsubscribe anytime."},
					},
				},
			},
			{
				Type:  component.KindColumn,
				Props: &component.ColumnProps{Width: 5},
				Children: []component.Node{
					{
						Type: component.KindForm,
						Props: &component.FormProps{
							Action:      "/subscribe",
							SubmitLabel: "Join Free",
							Fields: []component.FormField{
								{Name: "email", Label: "Email", InputType: "email", Required: true},
							},
						},
					},
				},
			},
		},
	}
}

func TestRenderLandingTree(t *testing.T) {
	log := &testLogger{}
	markup := New(log).Render(landingTree(t))

	assert.Contains(t, markup, `<h1>Grow Your List</h1>`)
	assert.Contains(t, markup, `href="/signup"`)
	assert.Contains(t, markup, `action="/subscribe"`)
	assert.Contains(t, markup, `class="col col-7"`)
	assert.Contains(t, markup, `background:#f8fafc`)
	assert.Empty(t, log.warnings)
}

func TestRenderIsDeterministic(t *testing.T) {
	r := New(&testLogger{})
	tree := landingTree(t)

	first := r.Render(tree)
	second := r.Render(tree)
	assert.Equal(t, first, second)
}

func TestRenderEscapesUserText(t *testing.T) {
	markup := New(&testLogger{}).Render(component.Node{
		Type:  component.KindHeadline,
		Props: &component.HeadlineProps{Text: `<script>alert("x")</script>`, Level: 1},
	})

	assert.NotContains(t, markup, "<script>")
	assert.Contains(t, markup, "&lt;script&gt;")
}

func TestRenderUnknownKindIsEmpty(t *testing.T) {
	log := &testLogger{}
	markup := New(log).Render(component.Node{
		Type: component.KindSection,
		Children: []component.Node{
			{Type: "Carousel"},
			{Type: component.KindParagraph, Props: &component.ParagraphProps{Text: "still here"}},
		},
	})

	assert.Contains(t, markup, "still here")
	assert.NotContains(t, markup, "Carousel")
	require.Len(t, log.warnings, 1)
}

func TestRenderMissingPropsFallsBackToZero(t *testing.T) {
	markup := New(&testLogger{}).Render(component.Node{Type: component.KindColumn})
	assert.Contains(t, markup, `col-12`)
}

func TestCustomKindOverride(t *testing.T) {
	r := New(&testLogger{})
	r.Register("Badge", func(props component.Props, children []string) string {
		return `<span class="badge">new</span>`
	})

	markup := r.Render(component.Node{Type: "Badge"})
	assert.Equal(t, `<span class="badge">new</span>`, markup)
}

func TestRenderDocumentSnapshot(t *testing.T) {
	doc := New(&testLogger{}).RenderDocument("Grow Your List", landingTree(t))
	snaps.MatchSnapshot(t, doc)
}
