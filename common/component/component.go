// Package component models the nested tree of visual components composing a
// page: sections contain columns, columns contain leaf or nested components.
// Each node carries a kind tag and a typed props struct resolved through an
// extensible registry, so new component kinds register their own props shape
// without touching the dispatcher.
package component

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Props is the typed property bag of a component kind
type Props interface {
	Kind() string
}

// Factory produces an empty Props value for a kind, ready to unmarshal into
type Factory func() Props

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// RegisterProps binds a component kind to its props factory. Later
// registrations for the same kind win, which lets callers override builtins.
func RegisterProps(kind string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[kind] = factory
}

// NewProps returns an empty typed Props for kind, or a GenericProps bag when
// the kind is unregistered. Trees always round-trip even for unknown kinds.
func NewProps(kind string) Props {
	registryMu.RLock()
	factory, ok := registry[kind]
	registryMu.RUnlock()

	if ok {
		return factory()
	}
	return &GenericProps{ComponentType: kind}
}

// GenericProps holds the raw fields of an unregistered component kind
type GenericProps struct {
	ComponentType string
	Fields        map[string]any
}

func (p *GenericProps) Kind() string { return p.ComponentType }

func (p *GenericProps) MarshalJSON() ([]byte, error) {
	if p.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.Fields)
}

func (p *GenericProps) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &p.Fields)
}

// Node is one component in a page tree. Container kinds hold an ordered
// list of children; leaves have none.
type Node struct {
	Type     string `json:"type"`
	Props    Props  `json:"props,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// UnmarshalJSON decodes a node, dispatching props decoding on the type tag
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type     string          `json:"type"`
		Props    json.RawMessage `json:"props"`
		Children []Node          `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Type == "" {
		return errors.New("component node missing type")
	}

	n.Type = raw.Type
	n.Children = raw.Children

	if len(raw.Props) > 0 && string(raw.Props) != "null" {
		props := NewProps(raw.Type)
		if err := json.Unmarshal(raw.Props, props); err != nil {
			return fmt.Errorf("decode %s props: %w", raw.Type, err)
		}
		n.Props = props
	}

	return nil
}

// UnmarshalYAML decodes a node from catalog data files. Props arrive as a
// plain map and are re-decoded through JSON into the registered typed shape.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Type     string         `yaml:"type"`
		Props    map[string]any `yaml:"props"`
		Children []Node         `yaml:"children"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Type == "" {
		return errors.New("component node missing type")
	}

	n.Type = raw.Type
	n.Children = raw.Children

	if len(raw.Props) > 0 {
		props, err := DecodeProps(raw.Type, raw.Props)
		if err != nil {
			return err
		}
		n.Props = props
	}

	return nil
}

// DecodeProps converts a loose field map into the typed props for kind
func DecodeProps(kind string, fields map[string]any) (Props, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode %s props: %w", kind, err)
	}

	props := NewProps(kind)
	if err := json.Unmarshal(data, props); err != nil {
		return nil, fmt.Errorf("decode %s props: %w", kind, err)
	}

	return props, nil
}

// Clone returns a deep copy of the tree via JSON round-trip. Used where a
// caller mutates a tree that must not alias shared catalog data.
func (n Node) Clone() (Node, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return Node{}, fmt.Errorf("clone component tree: %w", err)
	}

	var out Node
	if err := json.Unmarshal(data, &out); err != nil {
		return Node{}, fmt.Errorf("clone component tree: %w", err)
	}

	return out, nil
}

// Walk visits the tree depth-first, parents before children
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for i := range n.Children {
		n.Children[i].Walk(visit)
	}
}
