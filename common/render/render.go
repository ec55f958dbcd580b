// Package render turns component trees into markup. It is the single
// rendering path shared by editor preview, public page serving and export:
// identical input always yields byte-identical output.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/pagecraft/funnels/common/component"
)

// Logger receives non-fatal render warnings
type Logger interface {
	Warn(msg string, keysAndValues ...interface{})
}

// Func renders one component kind from its typed props and the already
// rendered markup of its children, in order.
type Func func(props component.Props, children []string) string

// Renderer dispatches on node type against a registry of render funcs.
// Rendering has no side effects beyond warning logs.
type Renderer struct {
	registry map[string]Func
	log      Logger
}

// New creates a renderer with all builtin component kinds registered
func New(log Logger) *Renderer {
	r := &Renderer{
		registry: make(map[string]Func),
		log:      log,
	}
	registerBuiltins(r)
	return r
}

// Register binds a component kind to a render func. Later registrations for
// the same kind win.
func (r *Renderer) Register(kind string, fn Func) {
	r.registry[kind] = fn
}

// Render renders a tree to a markup fragment. Unknown node types render to
// an empty string with a warning; they never abort sibling rendering.
func (r *Renderer) Render(node component.Node) string {
	fn, ok := r.registry[node.Type]
	if !ok {
		if r.log != nil {
			r.log.Warn("unknown component type, rendering empty", "type", node.Type)
		}
		return ""
	}

	children := make([]string, 0, len(node.Children))
	for _, child := range node.Children {
		children = append(children, r.Render(child))
	}

	return fn(node.Props, children)
}

// RenderDocument wraps a rendered tree in a standalone HTML document.
// Used by export and public serving.
func (r *Renderer) RenderDocument(title string, node component.Node) string {
	var b strings.Builder
	b.WriteString("<!doctype html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n")
	b.WriteString(r.Render(node))
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}
