package component

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const pageJSON = `{
	"type": "Section",
	"props": {"background": "#fff7ed", "anchor": "top"},
	"children": [
		{
			"type": "Column",
			"props": {"width": 8},
			"children": [
				{"type": "Hero", "props": {"title": "Launch Week", "buttonLabel": "Get Started", "buttonHref": "/signup"}},
				{"type": "Paragraph", "props": {"text": "Everything ships Friday."}}
			]
		}
	]
}`

func TestNodeJSONRoundTrip(t *testing.T) {
	var node Node
	require.NoError(t, json.Unmarshal([]byte(pageJSON), &node))

	assert.Equal(t, "Section", node.Type)
	section, ok := node.Props.(*SectionProps)
	require.True(t, ok, "section props should decode to typed struct")
	assert.Equal(t, "#fff7ed", section.Background)

	require.Len(t, node.Children, 1)
	column, ok := node.Children[0].Props.(*ColumnProps)
	require.True(t, ok)
	assert.Equal(t, 8, column.Width)

	hero, ok := node.Children[0].Children[0].Props.(*HeroProps)
	require.True(t, ok)
	assert.Equal(t, "Launch Week", hero.Title)
	assert.Equal(t, "/signup", hero.ButtonHref)

	// Encoding and decoding again must land on the same tree
	encoded, err := json.Marshal(node)
	require.NoError(t, err)

	var again Node
	require.NoError(t, json.Unmarshal(encoded, &again))
	assert.Equal(t, node, again)
}

func TestNodeMissingType(t *testing.T) {
	var node Node
	err := json.Unmarshal([]byte(`{"props": {"text": "orphan"}}`), &node)
	require.Error(t, err)
}

func TestUnknownKindRoundTrips(t *testing.T) {
	raw := `{"type": "Countdown", "props": {"deadline": "2026-09-01T00:00:00Z", "showDays": true}}`

	var node Node
	require.NoError(t, json.Unmarshal([]byte(raw), &node))

	generic, ok := node.Props.(*GenericProps)
	require.True(t, ok, "unknown kinds fall back to a generic bag")
	assert.Equal(t, "Countdown", generic.Kind())
	assert.Equal(t, "2026-09-01T00:00:00Z", generic.Fields["deadline"])
	assert.Equal(t, true, generic.Fields["showDays"])

	encoded, err := json.Marshal(node)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(encoded))
}

func TestNodeYAMLDecode(t *testing.T) {
	const doc = `
type: Section
props:
  background: "#0f172a"
children:
  - type: Headline
    props:
      text: Join the Webinar
      level: 1
  - type: Form
    props:
      submitLabel: Save My Seat
      fields:
        - name: email
          label: Email
          inputType: email
          required: true
`

	var node Node
	require.NoError(t, yaml.Unmarshal([]byte(doc), &node))

	require.Len(t, node.Children, 2)

	headline, ok := node.Children[0].Props.(*HeadlineProps)
	require.True(t, ok)
	assert.Equal(t, "Join the Webinar", headline.Text)
	assert.Equal(t, 1, headline.Level)

	form, ok := node.Children[1].Props.(*FormProps)
	require.True(t, ok)
	require.Len(t, form.Fields, 1)
	assert.Equal(t, "email", form.Fields[0].Name)
	assert.True(t, form.Fields[0].Required)
}

func TestCloneDoesNotAlias(t *testing.T) {
	var node Node
	require.NoError(t, json.Unmarshal([]byte(pageJSON), &node))

	clone, err := node.Clone()
	require.NoError(t, err)
	assert.Equal(t, node, clone)

	clone.Props.(*SectionProps).Background = "#000000"
	clone.Children[0].Children[0].Props.(*HeroProps).Title = "Changed"

	assert.Equal(t, "#fff7ed", node.Props.(*SectionProps).Background)
	assert.Equal(t, "Launch Week", node.Children[0].Children[0].Props.(*HeroProps).Title)
}

func TestWalkVisitsDepthFirst(t *testing.T) {
	var node Node
	require.NoError(t, json.Unmarshal([]byte(pageJSON), &node))

	var order []string
	node.Walk(func(n *Node) {
		order = append(order, n.Type)
	})

	assert.Equal(t, []string{"Section", "Column", "Hero", "Paragraph"}, order)
}
