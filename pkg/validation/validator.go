package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/goliatone/go-uischema/pkg/schema"
)

// Option configures a validation pass.
type Option func(*config)

type config struct {
	uniqueIDs bool
}

// WithUniqueIDs enables the tree-wide id uniqueness check. Duplicates are
// reported with CodeDuplicateID at the later occurrence.
func WithUniqueIDs() Option {
	return func(cfg *config) {
		cfg.uniqueIDs = true
	}
}

// Validate reports whether value has the UI Schema shape.
func Validate(value any, options ...Option) Result {
	_, result := Check(value, options...)
	return result
}

// Check validates value and returns the typed schema built along the way. The
// returned schema is only meaningful when result.Valid is true.
func Check(value any, options ...Option) (schema.UISchema, Result) {
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	c := &checker{}
	out := c.document(value)
	// ids are only compared once the tree itself is well formed
	if cfg.uniqueIDs && len(c.errors) == 0 {
		c.uniqueIDs(out.Root)
	}

	return out, Result{Valid: len(c.errors) == 0, Errors: c.errors}
}

type checker struct {
	errors []Error
}

func (c *checker) add(path string, code Code, format string, args ...any) {
	c.errors = append(c.errors, Error{
		Path:    path,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

func (c *checker) document(value any) schema.UISchema {
	var out schema.UISchema

	obj, ok := asObject(value)
	if !ok {
		c.add("", CodeInvalidType, "Schema must be an object, got %s", kindOf(value))
		return out
	}

	if raw, ok := obj["version"]; !ok {
		c.add("version", CodeMissingField, "Missing required field \"version\"")
	} else if version, ok := raw.(string); !ok {
		c.add("version", CodeInvalidType, "Field \"version\" must be a string, got %s", kindOf(raw))
	} else {
		out.Version = version
	}

	if raw, ok := obj["root"]; !ok {
		c.add("root", CodeMissingField, "Missing required field \"root\"")
	} else {
		out.Root = c.component(raw, "root")
	}

	if raw, ok := obj["data"]; ok && raw != nil {
		if data, ok := asObject(raw); ok {
			out.Data = schema.DataContext(cloneObject(data))
		} else {
			c.add("data", CodeInvalidType, "Field \"data\" must be an object, got %s", kindOf(raw))
		}
	}

	if raw, ok := obj["meta"]; ok && raw != nil {
		out.Meta = c.meta(raw, "meta")
	}

	return out
}

func (c *checker) meta(value any, path string) *schema.Meta {
	obj, ok := asObject(value)
	if !ok {
		c.add(path, CodeInvalidType, "Field \"meta\" must be an object, got %s", kindOf(value))
		return nil
	}
	meta := &schema.Meta{}
	meta.Title = c.optionalString(obj, "title", path)
	meta.Description = c.optionalString(obj, "description", path)
	meta.CreatedAt = c.optionalString(obj, "createdAt", path)
	meta.Author = c.optionalString(obj, "author", path)
	meta.UpdatedAt = c.optionalString(obj, "updatedAt", path)
	return meta
}

func (c *checker) component(value any, path string) schema.UIComponent {
	var out schema.UIComponent

	obj, ok := asObject(value)
	if !ok {
		c.add(path, CodeInvalidType, "Component must be an object, got %s", kindOf(value))
		return out
	}

	out.ID = c.requiredString(obj, "id", path)
	out.Type = c.requiredString(obj, "type", path)

	if raw, ok := obj["children"]; ok && raw != nil {
		items, ok := asArray(raw)
		if !ok {
			c.add(joinPath(path, "children"), CodeInvalidType, "Field \"children\" must be an array, got %s", kindOf(raw))
		} else {
			out.Children = make([]schema.UIComponent, len(items))
			for idx, item := range items {
				out.Children[idx] = c.component(item, schema.ChildPath(path, idx))
			}
		}
	}

	if raw, ok := obj["props"]; ok && raw != nil {
		if props, ok := asObject(raw); ok {
			out.Props = cloneObject(props)
		} else {
			c.add(joinPath(path, "props"), CodeInvalidType, "Field \"props\" must be an object, got %s", kindOf(raw))
		}
	}

	if raw, ok := obj["style"]; ok && raw != nil {
		out.Style = c.style(raw, joinPath(path, "style"))
	}

	out.Text = c.optionalString(obj, "text", path)
	out.Binding = c.optionalString(obj, "binding", path)

	if raw, ok := obj["events"]; ok && raw != nil {
		out.Events = c.events(raw, joinPath(path, "events"))
	}

	if raw, ok := obj["loop"]; ok && raw != nil {
		out.Loop = c.loop(raw, joinPath(path, "loop"))
	}

	out.Condition = c.optionalString(obj, "condition", path)
	return out
}

func (c *checker) style(value any, path string) schema.StyleProps {
	obj, ok := asObject(value)
	if !ok {
		c.add(path, CodeInvalidType, "Field \"style\" must be an object, got %s", kindOf(value))
		return nil
	}
	out := make(schema.StyleProps, len(obj))
	for _, key := range sortedKeys(obj) {
		raw := obj[key]
		if _, ok := raw.(string); !ok && !isNumber(raw) {
			c.add(joinPath(path, key), CodeInvalidType, "Style %q must be a string or number, got %s", key, kindOf(raw))
			continue
		}
		out[key] = raw
	}
	return out
}

func (c *checker) events(value any, path string) []schema.EventBinding {
	items, ok := asArray(value)
	if !ok {
		c.add(path, CodeInvalidType, "Field \"events\" must be an array, got %s", kindOf(value))
		return nil
	}

	out := make([]schema.EventBinding, 0, len(items))
	for idx, item := range items {
		itemPath := path + "[" + strconv.Itoa(idx) + "]"
		obj, ok := asObject(item)
		if !ok {
			c.add(itemPath, CodeInvalidType, "Event binding must be an object, got %s", kindOf(item))
			continue
		}

		binding := schema.EventBinding{Event: c.requiredString(obj, "event", itemPath)}

		actionPath := joinPath(itemPath, "action")
		raw, ok := obj["action"]
		switch {
		case !ok:
			c.add(actionPath, CodeMissingField, "Missing required field \"action\"")
		default:
			actionObj, ok := asObject(raw)
			if !ok {
				c.add(actionPath, CodeInvalidType, "Field \"action\" must be an object, got %s", kindOf(raw))
				break
			}
			if _, ok := actionObj["type"]; !ok {
				c.add(joinPath(actionPath, "type"), CodeMissingField, "Missing required field \"type\"")
				break
			}
			action, err := schema.DecodeAction(cloneObject(actionObj))
			if err != nil {
				c.add(actionPath, CodeInvalidType, "Invalid action: %v", err)
				break
			}
			binding.Action = action
		}
		out = append(out, binding)
	}
	return out
}

func (c *checker) loop(value any, path string) *schema.Loop {
	obj, ok := asObject(value)
	if !ok {
		c.add(path, CodeInvalidType, "Field \"loop\" must be an object, got %s", kindOf(value))
		return nil
	}
	return &schema.Loop{
		Source:    c.requiredString(obj, "source", path),
		ItemName:  c.optionalString(obj, "itemName", path),
		IndexName: c.optionalString(obj, "indexName", path),
	}
}

func (c *checker) requiredString(obj map[string]any, key, parent string) string {
	raw, ok := obj[key]
	if !ok {
		c.add(joinPath(parent, key), CodeMissingField, "Missing required field %q", key)
		return ""
	}
	str, ok := raw.(string)
	if !ok {
		c.add(joinPath(parent, key), CodeInvalidType, "Field %q must be a string, got %s", key, kindOf(raw))
		return ""
	}
	return str
}

func (c *checker) optionalString(obj map[string]any, key, parent string) string {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return ""
	}
	str, ok := raw.(string)
	if !ok {
		c.add(joinPath(parent, key), CodeInvalidType, "Field %q must be a string, got %s", key, kindOf(raw))
		return ""
	}
	return str
}

func (c *checker) uniqueIDs(root schema.UIComponent) {
	seen := make(map[string]string)
	schema.Walk(root, func(node schema.UIComponent, path string) bool {
		if first, exists := seen[node.ID]; exists {
			c.add(joinPath(path, "id"), CodeDuplicateID, "Duplicate component id %q (first used at %s)", node.ID, first)
			return true
		}
		seen[node.ID] = path
		return true
	})
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func asObject(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case schema.DataContext:
		return v, true
	case schema.StyleProps:
		return v, true
	default:
		return nil, false
	}
}

func asArray(value any) ([]any, bool) {
	v, ok := value.([]any)
	return v, ok
}

func cloneObject(src map[string]any) map[string]any {
	out, _ := schema.CloneValue(src).(map[string]any)
	return out
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type numberLiteral interface {
	Float64() (float64, error)
	String() string
}

func isNumber(value any) bool {
	if _, ok := value.(numberLiteral); ok {
		return true
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func kindOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	}
	if _, ok := asObject(value); ok {
		return "object"
	}
	if isNumber(value) {
		return "number"
	}
	return fmt.Sprintf("%T", value)
}
