package binding_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uischema/pkg/binding"
	"github.com/goliatone/go-uischema/pkg/schema"
)

func asError(err error, target **binding.Error) bool {
	return errors.As(err, target)
}

func TestResolveBinding(t *testing.T) {
	t.Parallel()

	data := map[string]any{
		"a": map[string]any{
			"b": []any{10, 20, 30},
		},
		"user": map[string]any{
			"name":    "Ada",
			"nothing": nil,
			"tags":    []string{"admin", "ops"},
		},
		"matrix": [][]int{{1, 2}, {3, 4}},
	}

	cases := []struct {
		expr string
		want binding.Result
	}{
		{expr: "{{a.b[1]}}", want: binding.Result{Value: 20, Defined: true}},
		{expr: "{{ user.name }}", want: binding.Result{Value: "Ada", Defined: true}},
		{expr: "{{user.tags[1]}}", want: binding.Result{Value: "ops", Defined: true}},
		{expr: "{{matrix[1][0]}}", want: binding.Result{Value: 3, Defined: true}},
		{expr: "{{user.nothing}}", want: binding.Result{Value: nil, Defined: true}},
		{expr: "{{user.missing}}", want: binding.Result{}},
		{expr: "{{a.b.length}}", want: binding.Result{Value: 3, Defined: true}},
		{expr: "{{user.tags.length}}", want: binding.Result{Value: 2, Defined: true}},
		{expr: "{{a.b.first}}", want: binding.Result{}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.expr, func(t *testing.T) {
			t.Parallel()
			got, err := binding.ResolveBinding(tc.expr, data)
			if err != nil {
				t.Fatalf("ResolveBinding(%q) returned error: %v", tc.expr, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveBindingFailures(t *testing.T) {
	t.Parallel()

	data := schema.DataContext{
		"items": []any{"x", "y"},
		"user":  map[string]any{"name": "Ada", "nothing": nil},
		"count": 3,
	}

	cases := []struct {
		expr    string
		code    binding.ErrorCode
		message string
	}{
		{expr: "{{items[5]}}", code: binding.CodeOutOfBounds, message: "Array index 5 out of bounds (length: 2)"},
		{expr: "{{user.missing.deeper}}", code: binding.CodeNilAccess, message: "Cannot access property of undefined"},
		{expr: "{{user.nothing.deeper}}", code: binding.CodeNilAccess, message: "Cannot access property of null"},
		{expr: "{{count.value}}", code: binding.CodeNonObject, message: `Cannot access property "value" of non-object`},
		{expr: "{{user[0]}}", code: binding.CodeNonArray, message: "Cannot access index 0 of non-array"},
		{expr: "{{user.missing[0]}}", code: binding.CodeNonArray, message: "Cannot access index 0 of non-array"},
		{expr: "{{items.first.name}}", code: binding.CodeNilAccess, message: "Cannot access property of undefined"},
		{expr: "{{items.length.value}}", code: binding.CodeNonObject, message: `Cannot access property "value" of non-object`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.expr, func(t *testing.T) {
			t.Parallel()
			_, err := binding.ResolveBinding(tc.expr, data)
			if err == nil {
				t.Fatalf("expected error for %q", tc.expr)
			}
			var bindingErr *binding.Error
			if !asError(err, &bindingErr) {
				t.Fatalf("expected *binding.Error, got %T", err)
			}
			if bindingErr.Code != tc.code || bindingErr.Message != tc.message {
				t.Fatalf("want %s %q, got %s %q", tc.code, tc.message, bindingErr.Code, bindingErr.Message)
			}
			if bindingErr.Position != -1 {
				t.Fatalf("resolution errors carry no position, got %d", bindingErr.Position)
			}
			if binding.IsParseError(err) {
				t.Fatalf("resolution error classified as parse error")
			}
		})
	}
}

func TestResolvePathNilData(t *testing.T) {
	t.Parallel()

	parsed, err := binding.ParsePath("anything")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	got, err := binding.ResolvePath(parsed.Segments, nil)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if got.Defined {
		t.Fatalf("expected undefined result, got %#v", got)
	}
}

func TestResolvePathTypedMaps(t *testing.T) {
	t.Parallel()

	type labels map[string]string
	data := map[string]any{
		"labels": labels{"title": "Dashboard"},
		"flags":  map[string]bool{"beta": true},
	}

	got, err := binding.ResolveBinding("{{labels.title}}", data)
	if err != nil || got.Value != "Dashboard" {
		t.Fatalf("expected Dashboard, got %#v err=%v", got, err)
	}

	got, err = binding.ResolveBinding("{{flags.beta}}", data)
	if err != nil || got.Value != true {
		t.Fatalf("expected true, got %#v err=%v", got, err)
	}
}

func TestResolveBindingPropagatesParseErrors(t *testing.T) {
	t.Parallel()

	_, err := binding.ResolveBinding("user.name", map[string]any{})
	if binding.CodeOf(err) != binding.CodeInvalidFormat {
		t.Fatalf("expected invalid format, got %v", err)
	}
}

const identRunes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_$-"

func randomName(rng *rand.Rand) string {
	buf := make([]byte, 1+rng.Intn(6))
	for i := range buf {
		buf[i] = identRunes[rng.Intn(len(identRunes))]
	}
	return string(buf)
}

func randomLeaf(rng *rand.Rand) any {
	switch rng.Intn(6) {
	case 0:
		return nil
	case 1:
		return rng.Float64() * 100
	case 2:
		return randomName(rng)
	case 3:
		return rng.Intn(2) == 0
	case 4:
		return []any{randomName(rng), 1.0}
	default:
		return map[string]any{"leaf": randomName(rng)}
	}
}

func randomPath(rng *rand.Rand) binding.Path {
	path := binding.Path{binding.Property(randomName(rng))}
	for n := rng.Intn(5); n > 0; n-- {
		if rng.Intn(2) == 0 {
			path = append(path, binding.Index(rng.Intn(4)))
		} else {
			path = append(path, binding.Property(randomName(rng)))
		}
	}
	return path
}

// placeAt builds a context holding value at path, with sibling entries
// around every step.
func placeAt(rng *rand.Rand, path binding.Path, value any) map[string]any {
	current := value
	for i := len(path) - 1; i >= 0; i-- {
		seg := path[i]
		if seg.Kind == binding.IndexSegment {
			items := make([]any, seg.Index+1+rng.Intn(3))
			for j := range items {
				items[j] = "filler"
			}
			items[seg.Index] = current
			current = items
			continue
		}
		current = map[string]any{seg.Name: current, seg.Name + "_sibling": "filler"}
	}
	return current.(map[string]any)
}

func TestResolvePathFindsGeneratedPlacements(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 300; i++ {
		path := randomPath(rng)
		value := randomLeaf(rng)
		data := placeAt(rng, path, value)

		got, err := binding.ResolvePath(path, data)
		if err != nil {
			t.Fatalf("ResolvePath(%s): %v", path, err)
		}
		if diff := cmp.Diff(binding.Result{Value: value, Defined: true}, got); diff != "" {
			t.Fatalf("ResolvePath(%s) mismatch (-want +got):\n%s", path, diff)
		}

		viaText, err := binding.ResolveBinding("{{"+path.String()+"}}", data)
		if err != nil {
			t.Fatalf("ResolveBinding(%s): %v", path, err)
		}
		if diff := cmp.Diff(got, viaText); diff != "" {
			t.Fatalf("text and segment resolution disagree for %s (-want +got):\n%s", path, diff)
		}
	}
}
