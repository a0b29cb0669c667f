package binding

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-uischema/pkg/schema"
)

// Property locations recorded on DataField.
const (
	PropertyBinding    = "binding"
	PropertyText       = "text"
	PropertyProps      = "props"
	PropertyLoopSource = "loop.source"
	PropertyCondition  = "condition"
)

// DataField is one binding occurrence discovered in a component tree.
type DataField struct {
	// Binding is the placeholder text as written, e.g. "{{user.name}}".
	Binding string `json:"binding"`
	// Path is the expression inside the braces, e.g. "user.name".
	Path        string `json:"path"`
	Segments    Path   `json:"segments"`
	ComponentID string `json:"componentId"`
	// Property locates the occurrence within the component: "text",
	// "props.items[1].label", "loop.source", ...
	Property string `json:"property"`
}

// ExtractDataFields lists every parseable binding in the schema. Per
// component the order is binding, text, props (sorted keys, depth first),
// loop source, condition; children follow their parent in order.
// Occurrences that fail to parse are skipped.
func ExtractDataFields(s schema.UISchema) []DataField {
	var fields []DataField
	schema.Walk(s.Root, func(node schema.UIComponent, _ string) bool {
		fields = appendComponentFields(fields, node)
		return true
	})
	return fields
}

// ExtractComponentFields lists the bindings of a single node, ignoring its
// children.
func ExtractComponentFields(node schema.UIComponent) []DataField {
	return appendComponentFields(nil, node)
}

func appendComponentFields(fields []DataField, node schema.UIComponent) []DataField {
	if node.Binding != "" {
		if parsed, err := ParseBindingExpression(node.Binding); err == nil {
			fields = append(fields, newField(strings.TrimSpace(node.Binding), parsed, node.ID, PropertyBinding))
		}
	}

	fields = appendTextFields(fields, node.Text, node.ID, PropertyText)

	if len(node.Props) > 0 {
		walkPropStrings(node.Props, PropertyProps, func(value, property string) {
			fields = appendTextFields(fields, value, node.ID, property)
		})
	}

	if node.Loop != nil && strings.TrimSpace(node.Loop.Source) != "" {
		if parsed, raw, ok := parseLoopSource(node.Loop.Source); ok {
			fields = append(fields, newField(raw, parsed, node.ID, PropertyLoopSource))
		}
	}

	fields = appendTextFields(fields, node.Condition, node.ID, PropertyCondition)
	return fields
}

func appendTextFields(fields []DataField, text, componentID, property string) []DataField {
	if text == "" {
		return fields
	}
	for _, occ := range Placeholders(text) {
		parsed, err := occ.Parse()
		if err != nil {
			continue
		}
		fields = append(fields, newField(occ.Raw, parsed, componentID, property))
	}
	return fields
}

// parseLoopSource accepts a bare path or a single wrapped placeholder. The
// returned binding text is always in wrapped form.
func parseLoopSource(source string) (ParseResult, string, bool) {
	trimmed := strings.TrimSpace(source)
	if strings.HasPrefix(trimmed, openDelim) && strings.HasSuffix(trimmed, closeDelim) {
		parsed, err := ParseBindingExpression(trimmed)
		if err != nil {
			return ParseResult{}, "", false
		}
		return parsed, trimmed, true
	}
	parsed, err := ParsePath(trimmed)
	if err != nil {
		return ParseResult{}, "", false
	}
	return parsed, openDelim + parsed.Expression + closeDelim, true
}

func newField(raw string, parsed ParseResult, componentID, property string) DataField {
	return DataField{
		Binding:     raw,
		Path:        parsed.Expression,
		Segments:    parsed.Segments,
		ComponentID: componentID,
		Property:    property,
	}
}

// walkPropStrings calls fn for every string leaf below value with its
// dotted/bracketed location.
func walkPropStrings(value any, path string, fn func(value, property string)) {
	switch v := value.(type) {
	case string:
		fn(v, path)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			walkPropStrings(v[key], path+"."+key, fn)
		}
	case []any:
		for idx, item := range v {
			walkPropStrings(item, path+"["+strconv.Itoa(idx)+"]", fn)
		}
	case []string:
		for idx, item := range v {
			fn(item, path+"["+strconv.Itoa(idx)+"]")
		}
	}
}

// UniquePaths returns the distinct binding paths used by the schema in
// first-seen order.
func UniquePaths(s schema.UISchema) []string {
	fields := ExtractDataFields(s)
	seen := make(map[string]struct{}, len(fields))
	var out []string
	for _, field := range fields {
		if _, ok := seen[field.Path]; ok {
			continue
		}
		seen[field.Path] = struct{}{}
		out = append(out, field.Path)
	}
	return out
}

// FieldsByComponent groups fields by component id.
func FieldsByComponent(fields []DataField) map[string][]DataField {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string][]DataField)
	for _, field := range fields {
		out[field.ComponentID] = append(out[field.ComponentID], field)
	}
	return out
}
