package binding_test

import (
	"testing"

	"github.com/goliatone/go-uischema/pkg/binding"
)

func TestResolveBindings(t *testing.T) {
	t.Parallel()

	data := map[string]any{
		"name":  "Ada",
		"count": 3.0,
		"ratio": 0.25,
		"ok":    true,
		"none":  nil,
		"tags":  []any{"a", "b"},
		"user":  map[string]any{"id": 7},
		"items": []any{"x"},
	}

	cases := []struct {
		name     string
		template string
		want     string
	}{
		{name: "plain", template: "no placeholders", want: "no placeholders"},
		{name: "single", template: "Hello {{name}}", want: "Hello Ada"},
		{name: "multiple", template: "{{name}} has {{count}} items", want: "Ada has 3 items"},
		{name: "float", template: "ratio={{ratio}}", want: "ratio=0.25"},
		{name: "bool", template: "ok={{ok}}", want: "ok=true"},
		{name: "null", template: "[{{none}}]", want: "[]"},
		{name: "missing", template: "[{{ghost}}]", want: "[]"},
		{name: "array", template: "tags={{tags}}", want: `tags=["a","b"]`},
		{name: "object", template: "user={{user}}", want: `user={"id":7}`},
		{name: "parse failure kept", template: "x={{a..b}}", want: "x={{a..b}}"},
		{name: "resolve failure kept", template: "x={{items[3]}}", want: "x={{items[3]}}"},
		{name: "empty braces untouched", template: "{{}} {{name}}", want: "{{}} Ada"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := binding.ResolveBindings(tc.template, data); got != tc.want {
				t.Fatalf("ResolveBindings(%q) = %q, want %q", tc.template, got, tc.want)
			}
		})
	}
}

func TestResolveBindingsEmptyData(t *testing.T) {
	t.Parallel()

	if got := binding.ResolveBindings("Hello {{name}}", map[string]any{}); got != "Hello " {
		t.Fatalf("expected %q, got %q", "Hello ", got)
	}
	if got := binding.ResolveBindings("Hello {{name}}", nil); got != "Hello " {
		t.Fatalf("expected %q with nil data, got %q", "Hello ", got)
	}
}

func TestResolveBindingsSanitizer(t *testing.T) {
	t.Parallel()

	data := map[string]any{"label": "<b>bold</b><script>alert(1)</script>"}

	got := binding.ResolveBindings("<p>{{label}}</p>", data, binding.WithSanitizer(binding.StrictHTML()))
	if got != "<p>bold</p>" {
		t.Fatalf("strict sanitizer: got %q", got)
	}

	got = binding.ResolveBindings("{{label}}", data, binding.WithSanitizer(binding.InlineMarkup()))
	if got != "<b>bold</b>" {
		t.Fatalf("inline sanitizer: got %q", got)
	}

	got = binding.ResolveBindings("{{label}}", data)
	if got != data["label"] {
		t.Fatalf("expected raw value without sanitizer, got %q", got)
	}
}

func TestStringify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   binding.Result
		want string
	}{
		{in: binding.Result{}, want: ""},
		{in: binding.Result{Value: nil, Defined: true}, want: ""},
		{in: binding.Result{Value: 42.0, Defined: true}, want: "42"},
		{in: binding.Result{Value: float32(1.5), Defined: true}, want: "1.5"},
		{in: binding.Result{Value: 1e21, Defined: true}, want: "1e+21"},
		{in: binding.Result{Value: 12, Defined: true}, want: "12"},
		{in: binding.Result{Value: false, Defined: true}, want: "false"},
		{in: binding.Result{Value: map[string]any{"k": "v"}, Defined: true}, want: `{"k":"v"}`},
	}

	for _, tc := range cases {
		if got := binding.Stringify(tc.in); got != tc.want {
			t.Fatalf("Stringify(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
