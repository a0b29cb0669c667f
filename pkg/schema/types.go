package schema

// UISchema is the root document handed to renderers and exporters.
type UISchema struct {
	Version string      `json:"version"`
	Root    UIComponent `json:"root"`
	Data    DataContext `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta carries optional descriptive fields. Timestamps are kept as the strings
// supplied by the producer.
type Meta struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	Author      string `json:"author,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// UIComponent is a single node of the component tree. ID and Type are
// mandatory at every depth.
type UIComponent struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Props     map[string]any `json:"props,omitempty"`
	Style     StyleProps     `json:"style,omitempty"`
	Children  []UIComponent  `json:"children,omitempty"`
	Text      string         `json:"text,omitempty"`
	Binding   string         `json:"binding,omitempty"`
	Events    []EventBinding `json:"events,omitempty"`
	Loop      *Loop          `json:"loop,omitempty"`
	Condition string         `json:"condition,omitempty"`
}

// Loop repeats a component once per element of the array found at Source.
type Loop struct {
	Source    string `json:"source"`
	ItemName  string `json:"itemName,omitempty"`
	IndexName string `json:"indexName,omitempty"`
}

// StyleProps is an open map of CSS-like keys to string or number values.
type StyleProps map[string]any

// DataContext is the nested key/value store bindings resolve against.
type DataContext map[string]any

// HasChildren reports whether the component has at least one child.
func (c UIComponent) HasChildren() bool {
	return len(c.Children) > 0
}
