package binding

import (
	"strings"

	"github.com/goliatone/go-uischema/pkg/schema"
)

// Bind returns a copy of s with text and string prop leaves resolved against
// data. When data is nil the schema's own data context is used; otherwise
// data is layered over it (caller keys win). A prop leaf that consists of a
// single placeholder receives the resolved value itself rather than its string
// form, so "{{items}}" can feed an array prop. Loop sources, conditions and
// component bindings are left for the renderer, which evaluates them per
// iteration. Inside a looped component, placeholders rooted at the loop's item
// or index name are kept verbatim for the same reason.
func Bind(s schema.UISchema, data schema.DataContext, options ...TemplateOption) schema.UISchema {
	cfg := newTemplateConfig(options)
	ctx := MergeContext(s.Data, data)

	out := s.Clone()
	out.Root = cfg.bindComponent(out.Root, ctx, nil)
	return out
}

// Default loop variable names used when a loop leaves them unset.
const (
	DefaultItemName  = "item"
	DefaultIndexName = "index"
)

func (cfg templateConfig) bindComponent(node schema.UIComponent, ctx schema.DataContext, scoped map[string]struct{}) schema.UIComponent {
	if node.Loop != nil {
		scoped = withLoopScope(scoped, node.Loop)
	}
	cfg.scoped = scoped

	node.Text = cfg.render(node.Text, ctx)
	if node.Props != nil {
		node.Props = cfg.bindValue(node.Props, ctx).(map[string]any)
	}
	for idx, child := range node.Children {
		node.Children[idx] = cfg.bindComponent(child, ctx, scoped)
	}
	return node
}

func withLoopScope(scoped map[string]struct{}, loop *schema.Loop) map[string]struct{} {
	out := make(map[string]struct{}, len(scoped)+2)
	for name := range scoped {
		out[name] = struct{}{}
	}
	item, index := LoopVariables(loop)
	out[item] = struct{}{}
	out[index] = struct{}{}
	return out
}

// LoopVariables returns the item and index names a loop exposes to its
// subtree, falling back to DefaultItemName and DefaultIndexName.
func LoopVariables(loop *schema.Loop) (item, index string) {
	item, index = DefaultItemName, DefaultIndexName
	if loop == nil {
		return item, index
	}
	if loop.ItemName != "" {
		item = loop.ItemName
	}
	if loop.IndexName != "" {
		index = loop.IndexName
	}
	return item, index
}

func (cfg templateConfig) bindValue(value any, ctx schema.DataContext) any {
	switch v := value.(type) {
	case string:
		return cfg.bindString(v, ctx)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = cfg.bindValue(item, ctx)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = cfg.bindValue(item, ctx)
		}
		return out
	default:
		return value
	}
}

func (cfg templateConfig) bindString(value string, ctx schema.DataContext) any {
	occurrences := Placeholders(value)
	if len(occurrences) == 1 && strings.TrimSpace(value) == occurrences[0].Raw {
		parsed, err := occurrences[0].Parse()
		if err != nil || cfg.isScoped(parsed.Segments) {
			return value
		}
		resolved, err := ResolvePath(parsed.Segments, ctx)
		if err != nil {
			return value
		}
		if str, ok := resolved.Value.(string); ok {
			return cfg.sanitize(str)
		}
		return schema.CloneValue(resolved.Value)
	}
	return cfg.render(value, ctx)
}

// MergeContext layers overlay over base without modifying either. Keys in
// overlay win. A nil overlay returns base itself.
func MergeContext(base, overlay schema.DataContext) schema.DataContext {
	if overlay == nil {
		return base
	}
	out := make(schema.DataContext, len(base)+len(overlay))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overlay {
		out[key] = value
	}
	return out
}
