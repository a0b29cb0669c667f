package schema

import (
	"strconv"
)

// Clone returns a deep copy of the schema.
func (s UISchema) Clone() UISchema {
	out := UISchema{
		Version: s.Version,
		Root:    s.Root.Clone(),
	}
	if s.Data != nil {
		out.Data = DataContext(cloneMap(s.Data))
	}
	if s.Meta != nil {
		meta := *s.Meta
		out.Meta = &meta
	}
	return out
}

// Clone returns a deep copy of the component and its subtree.
func (c UIComponent) Clone() UIComponent {
	out := c
	if c.Props != nil {
		out.Props = cloneMap(c.Props)
	}
	if c.Style != nil {
		out.Style = StyleProps(cloneMap(c.Style))
	}
	if c.Children != nil {
		out.Children = make([]UIComponent, len(c.Children))
		for idx, child := range c.Children {
			out.Children[idx] = child.Clone()
		}
	}
	if c.Events != nil {
		out.Events = make([]EventBinding, len(c.Events))
		for idx, event := range c.Events {
			out.Events[idx] = EventBinding{Event: event.Event, Action: CloneAction(event.Action)}
		}
	}
	if c.Loop != nil {
		loop := *c.Loop
		out.Loop = &loop
	}
	return out
}

// CloneAction deep-copies the payload carried by an action.
func CloneAction(action EventAction) EventAction {
	switch a := action.(type) {
	case SetValueAction:
		a.Value = CloneValue(a.Value)
		return a
	case CustomAction:
		if a.Params != nil {
			a.Params = cloneMap(a.Params)
		}
		return a
	default:
		return action
	}
}

// CloneValue deep-copies JSON-shaped values. Scalars and unknown types are
// returned as-is.
func CloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneMap(v)
	case DataContext:
		return DataContext(cloneMap(v))
	case StyleProps:
		return StyleProps(cloneMap(v))
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = CloneValue(item)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for key, item := range v {
			out[key] = item
		}
		return out
	case []string:
		return append([]string(nil), v...)
	default:
		return value
	}
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = CloneValue(value)
	}
	return out
}

// Walk visits the tree in pre-order. The callback receives the node and its
// path ("root", "root.children[0]", ...). Returning false skips the node's
// children.
func Walk(root UIComponent, fn func(node UIComponent, path string) bool) {
	if fn == nil {
		return
	}
	walk(root, "root", fn)
}

func walk(node UIComponent, path string, fn func(UIComponent, string) bool) {
	if !fn(node, path) {
		return
	}
	for idx, child := range node.Children {
		walk(child, ChildPath(path, idx), fn)
	}
}

// ChildPath formats the path of the idx-th child of parent.
func ChildPath(parent string, idx int) string {
	return parent + ".children[" + strconv.Itoa(idx) + "]"
}

// Count returns the number of components in the subtree rooted at root.
func Count(root UIComponent) int {
	total := 0
	Walk(root, func(UIComponent, string) bool {
		total++
		return true
	})
	return total
}

// IDs returns every component id in pre-order.
func IDs(root UIComponent) []string {
	var ids []string
	Walk(root, func(node UIComponent, _ string) bool {
		ids = append(ids, node.ID)
		return true
	})
	return ids
}

// Find returns the first component with the given id.
func Find(root UIComponent, id string) (UIComponent, bool) {
	var (
		found UIComponent
		ok    bool
	)
	Walk(root, func(node UIComponent, _ string) bool {
		if ok {
			return false
		}
		if node.ID == id {
			found, ok = node, true
			return false
		}
		return true
	})
	return found, ok
}
