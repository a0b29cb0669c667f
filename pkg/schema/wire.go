package schema

import (
	"github.com/goccy/go-json"
)

// The wire structs keep an empty but present map ("props": {}) distinct from
// an absent one. A nil map is omitted; a non-nil empty map is written as {}.

type schemaWire struct {
	Version string          `json:"version"`
	Root    UIComponent     `json:"root"`
	Data    *map[string]any `json:"data,omitempty"`
	Meta    *Meta           `json:"meta,omitempty"`
}

type componentWire struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Props     *map[string]any `json:"props,omitempty"`
	Style     *map[string]any `json:"style,omitempty"`
	Children  []UIComponent   `json:"children,omitempty"`
	Text      string          `json:"text,omitempty"`
	Binding   string          `json:"binding,omitempty"`
	Events    []EventBinding  `json:"events,omitempty"`
	Loop      *Loop           `json:"loop,omitempty"`
	Condition string          `json:"condition,omitempty"`
}

func presentMap[M ~map[string]any](m M) *map[string]any {
	if m == nil {
		return nil
	}
	plain := map[string]any(m)
	return &plain
}

// MarshalJSON writes the schema, keeping an empty data context.
func (s UISchema) MarshalJSON() ([]byte, error) {
	return json.Marshal(schemaWire{
		Version: s.Version,
		Root:    s.Root,
		Data:    presentMap(s.Data),
		Meta:    s.Meta,
	})
}

// MarshalJSON writes the component, keeping empty props and style maps.
func (c UIComponent) MarshalJSON() ([]byte, error) {
	return json.Marshal(componentWire{
		ID:        c.ID,
		Type:      c.Type,
		Props:     presentMap(c.Props),
		Style:     presentMap(c.Style),
		Children:  c.Children,
		Text:      c.Text,
		Binding:   c.Binding,
		Events:    c.Events,
		Loop:      c.Loop,
		Condition: c.Condition,
	})
}
