// Package catalog serves the static template catalog. Templates and themes
// are data shipped with the binary, not persisted entities.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/pagecraft/funnels/cmd/funnelapi/models"
)

//go:embed templates.yaml
var rawCatalog []byte

// Catalog is an in-memory index over the template data
type Catalog struct {
	templates []*models.Template
	byID      map[string]*models.Template
	themes    map[string]models.Theme
}

type catalogFile struct {
	Themes    map[string]models.Theme `yaml:"themes"`
	Templates []*models.Template      `yaml:"templates"`
}

// Load parses the embedded catalog
func Load() (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(rawCatalog, &file); err != nil {
		return nil, fmt.Errorf("parse template catalog: %w", err)
	}

	c := &Catalog{
		templates: file.Templates,
		byID:      make(map[string]*models.Template, len(file.Templates)),
		themes:    file.Themes,
	}

	for _, tpl := range file.Templates {
		if tpl.ID == "" {
			return nil, fmt.Errorf("template %q has no id", tpl.Name)
		}
		if _, dup := c.byID[tpl.ID]; dup {
			return nil, fmt.Errorf("duplicate template id: %s", tpl.ID)
		}
		if len(tpl.Pages) == 0 {
			return nil, fmt.Errorf("template %s has no pages", tpl.ID)
		}
		for _, def := range tpl.Pages {
			if !models.ValidPageType(def.Type) {
				return nil, fmt.Errorf("template %s page %q has unknown type %q", tpl.ID, def.Name, def.Type)
			}
		}
		c.byID[tpl.ID] = tpl
	}

	return c, nil
}

// List returns all templates, optionally filtered by category
func (c *Catalog) List(category string) []*models.Template {
	if category == "" {
		out := make([]*models.Template, len(c.templates))
		copy(out, c.templates)
		return out
	}

	var out []*models.Template
	for _, tpl := range c.templates {
		if tpl.Category == category {
			out = append(out, tpl)
		}
	}
	return out
}

// Get returns a template by id
func (c *Catalog) Get(id string) (*models.Template, bool) {
	tpl, ok := c.byID[id]
	return tpl, ok
}

// Theme returns the visual theme for a category
func (c *Catalog) Theme(category string) (models.Theme, bool) {
	theme, ok := c.themes[category]
	return theme, ok
}
