package condition

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-uischema/pkg/binding"
	"github.com/goliatone/go-uischema/pkg/schema"
)

// ErrRootHidden is returned by Prune when the root component's condition is
// false.
var ErrRootHidden = errors.New("condition: root component is hidden")

// Prune returns a copy of s without the components whose condition is false
// for data layered over the schema's own data context. Conditions that hold
// are cleared. Conditions that read a loop's item or index name cannot be
// decided before iteration and are kept as written, together with their
// component.
func Prune(s schema.UISchema, data schema.DataContext) (schema.UISchema, error) {
	ctx := binding.MergeContext(s.Data, data)
	out := s.Clone()

	root, visible, err := prune(out.Root, ctx, "root", nil)
	if err != nil {
		return schema.UISchema{}, err
	}
	if !visible {
		return schema.UISchema{}, ErrRootHidden
	}
	out.Root = root
	return out, nil
}

func prune(node schema.UIComponent, ctx schema.DataContext, path string, scoped map[string]struct{}) (schema.UIComponent, bool, error) {
	if node.Loop != nil {
		scoped = withLoop(scoped, node.Loop)
	}

	if node.Condition != "" {
		expr, err := Compile(node.Condition)
		if err != nil {
			return node, false, fmt.Errorf("%s: %w", path, err)
		}
		if !readsAny(expr, scoped) {
			ok, err := expr.Eval(ctx)
			if err != nil {
				return node, false, fmt.Errorf("%s: %w", path, err)
			}
			if !ok {
				return node, false, nil
			}
			node.Condition = ""
		}
	}

	if len(node.Children) == 0 {
		return node, true, nil
	}
	kept := node.Children[:0]
	for idx, child := range node.Children {
		child, visible, err := prune(child, ctx, schema.ChildPath(path, idx), scoped)
		if err != nil {
			return node, false, err
		}
		if visible {
			kept = append(kept, child)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	node.Children = kept
	return node, true, nil
}

func withLoop(scoped map[string]struct{}, loop *schema.Loop) map[string]struct{} {
	out := make(map[string]struct{}, len(scoped)+2)
	for name := range scoped {
		out[name] = struct{}{}
	}
	item, index := binding.LoopVariables(loop)
	out[item] = struct{}{}
	out[index] = struct{}{}
	return out
}

func readsAny(expr *Expr, names map[string]struct{}) bool {
	if len(names) == 0 {
		return false
	}
	for _, root := range expr.Roots() {
		if _, ok := names[root]; ok {
			return true
		}
	}
	return false
}
