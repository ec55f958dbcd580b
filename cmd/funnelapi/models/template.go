package models

import (
	"github.com/pagecraft/funnels/common/component"
)

// Template is a reusable blueprint of page definitions used to bootstrap a
// new funnel. Templates are static catalog data, not persisted entities.
type Template struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`

	// Pages in instantiation order; each becomes a page with one v1 revision
	Pages []TemplatePageDefinition `yaml:"pages" json:"pages"`
}

// TemplatePageDefinition pairs a page name/type with its initial tree
type TemplatePageDefinition struct {
	Name string         `yaml:"name" json:"name"`
	Type PageType       `yaml:"type" json:"type"`
	Tree component.Node `yaml:"tree" json:"tree"`
}

// Theme carries the visual props substituted into section nodes when a
// template is instantiated. Themes are keyed by template category.
type Theme struct {
	Background string `yaml:"background" json:"background,omitempty"`
	Accent     string `yaml:"accent" json:"accent,omitempty"`
}
