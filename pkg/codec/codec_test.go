package codec_test

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uischema/pkg/codec"
	"github.com/goliatone/go-uischema/pkg/schema"
	"github.com/goliatone/go-uischema/pkg/validation"
)

func sampleSchema() schema.UISchema {
	return schema.UISchema{
		Version: "1.0",
		Root: schema.UIComponent{
			ID:    "page",
			Type:  "Container",
			Style: schema.StyleProps{"padding": 16, "display": "flex"},
			Children: []schema.UIComponent{
				{ID: "greeting", Type: "Text", Text: "Hello {{user.name}}"},
				{
					ID:      "name",
					Type:    "Input",
					Binding: "{{form.name}}",
					Props:   map[string]any{"placeholder": "Name", "rules": []any{map[string]any{"required": true}}},
					Events:  []schema.EventBinding{{Event: "onChange", Action: schema.SetValueAction{Path: "form.name"}}},
				},
				{
					ID:        "list",
					Type:      "List",
					Loop:      &schema.Loop{Source: "items", ItemName: "item", IndexName: "i"},
					Condition: "{{showList}}",
				},
			},
		},
		Data: schema.DataContext{"user": map[string]any{"name": "Ada"}, "items": []any{1, 2}},
		Meta: &schema.Meta{Title: "Profile", Author: "team"},
	}
}

func TestSerializeCompactAndPretty(t *testing.T) {
	t.Parallel()

	s := schema.UISchema{Version: "1.0", Root: schema.UIComponent{ID: "a", Type: "Text"}}

	compact, err := codec.Serialize(s, codec.SerializeOptions{})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if compact != `{"version":"1.0","root":{"id":"a","type":"Text"}}` {
		t.Fatalf("unexpected compact output: %s", compact)
	}

	pretty, err := codec.Serialize(s, codec.SerializeOptions{Pretty: true})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !strings.Contains(pretty, "\n  \"version\"") {
		t.Fatalf("expected two-space indent, got:\n%s", pretty)
	}

	wide, err := codec.Serialize(s, codec.SerializeOptions{Pretty: true, Indent: 4})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !strings.Contains(wide, "\n    \"version\"") {
		t.Fatalf("expected four-space indent, got:\n%s", wide)
	}
}

func TestRoundTripSample(t *testing.T) {
	t.Parallel()

	original := sampleSchema()
	for _, pretty := range []bool{false, true} {
		text, err := codec.Serialize(original, codec.SerializeOptions{Pretty: pretty})
		if err != nil {
			t.Fatalf("serialize: %v", err)
		}
		result := codec.Deserialize(text)
		if !result.Success {
			t.Fatalf("deserialize failed: %s", result.Error)
		}
		if !codec.SchemasEqual(original, result.Schema) {
			t.Fatalf("round trip mismatch (pretty=%v)", pretty)
		}
	}
}

func TestRoundTripKeepsEmptyMaps(t *testing.T) {
	t.Parallel()

	const text = `{"version":"1","root":{"id":"a","type":"Text","props":{},"style":{}},"data":{}}`

	result := codec.Deserialize(text)
	if !result.Success {
		t.Fatalf("deserialize failed: %s", result.Error)
	}
	want := schema.UISchema{
		Version: "1",
		Root:    schema.UIComponent{ID: "a", Type: "Text", Props: map[string]any{}, Style: schema.StyleProps{}},
		Data:    schema.DataContext{},
	}
	if diff := cmp.Diff(want, result.Schema); diff != "" {
		t.Fatalf("decoded schema mismatch (-want +got):\n%s", diff)
	}

	out, err := codec.Serialize(result.Schema, codec.SerializeOptions{})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if out != text {
		t.Fatalf("empty maps must survive serialization\nwant: %s\n got: %s", text, out)
	}

	again := codec.Deserialize(out)
	if diff := cmp.Diff(want, again.Schema); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripGenerated(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		original := schema.UISchema{
			Version: fmt.Sprintf("1.%d", i),
			Root:    randomComponent(rng, fmt.Sprintf("n%d", i), 0),
		}
		if rng.Intn(2) == 0 {
			original.Data = schema.DataContext{"count": float64(i), "flag": i%2 == 0, "nested": map[string]any{"xs": []any{"a", nil}}}
		}

		text, err := codec.Serialize(original, codec.SerializeOptions{Pretty: i%2 == 0})
		if err != nil {
			t.Fatalf("serialize #%d: %v", i, err)
		}
		result := codec.Deserialize(text)
		if !result.Success {
			t.Fatalf("deserialize #%d failed: %s", i, result.Error)
		}
		if !codec.SchemasEqual(original, result.Schema) {
			t.Fatalf("round trip #%d mismatch:\n%s", i, text)
		}
		if schema.Count(original.Root) != schema.Count(result.Schema.Root) {
			t.Fatalf("component count changed in #%d", i)
		}
	}
}

func randomComponent(rng *rand.Rand, id string, depth int) schema.UIComponent {
	types := []string{"Container", "Text", "Button", "Input", "Image"}
	node := schema.UIComponent{ID: id, Type: types[rng.Intn(len(types))]}
	if rng.Intn(2) == 0 {
		node.Props = map[string]any{"label": "L" + id, "size": float64(rng.Intn(10))}
	}
	if rng.Intn(3) == 0 {
		node.Style = schema.StyleProps{"margin": float64(rng.Intn(8)), "color": "blue"}
	}
	if rng.Intn(3) == 0 {
		node.Text = "value {{v" + id + "}}"
	}
	if rng.Intn(4) == 0 {
		node.Events = []schema.EventBinding{{Event: "onClick", Action: schema.CustomAction{Handler: "h", Params: map[string]any{"id": id}}}}
	}
	if depth < 3 {
		for c := 0; c < rng.Intn(3); c++ {
			node.Children = append(node.Children, randomComponent(rng, fmt.Sprintf("%s-%d", id, c), depth+1))
		}
	}
	return node
}

func TestDeserializeFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		prefix   string
		contains string
		position bool
	}{
		{name: "empty", input: "", prefix: "Empty input"},
		{name: "whitespace", input: "  \n\t", prefix: "Empty input"},
		{name: "syntax", input: `{"version": "1.0",`, prefix: "JSON parse error: ", position: true},
		{name: "missing root", input: `{"version":"1.0"}`, prefix: "Validation failed: ", contains: `"root"`},
		{name: "missing nested type", input: `{"version":"1","root":{"id":"a","type":"Box","children":[{"id":"b"}]}}`, contains: "root.children[0].type"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := codec.Deserialize(tc.input)
			if result.Success {
				t.Fatalf("expected failure")
			}
			if tc.prefix != "" && !strings.HasPrefix(result.Error, tc.prefix) {
				t.Fatalf("expected prefix %q, got %q", tc.prefix, result.Error)
			}
			if tc.contains != "" && !strings.Contains(result.Error, tc.contains) {
				t.Fatalf("expected %q in %q", tc.contains, result.Error)
			}
			if tc.position && result.Position < 0 {
				t.Fatalf("expected a syntax position, got %d", result.Position)
			}
			if !tc.position && result.Position != -1 {
				t.Fatalf("expected no position, got %d", result.Position)
			}
		})
	}
}

func TestDeserializeJoinsAllIssues(t *testing.T) {
	t.Parallel()

	result := codec.Deserialize(`{"root":{"type":"Box"}}`)
	if result.Success {
		t.Fatalf("expected failure")
	}
	if len(result.Issues) != 2 {
		t.Fatalf("expected two issues, got %#v", result.Issues)
	}
	want := "Validation failed: version: Missing required field \"version\"; root.id: Missing required field \"id\""
	if result.Error != want {
		t.Fatalf("error mismatch:\nwant %q\n got %q", want, result.Error)
	}
}

func TestDeserializeOptions(t *testing.T) {
	t.Parallel()

	text := `{"version":"1","root":{"id":"a","type":"Box","children":[{"id":"a","type":"Text"}]}}`
	if result := codec.Deserialize(text); !result.Success {
		t.Fatalf("expected success without unique id check: %s", result.Error)
	}
	result := codec.Deserialize(text, codec.WithUniqueIDs())
	if result.Success || result.Issues[0].Code != validation.CodeDuplicateID {
		t.Fatalf("expected duplicate id failure, got %#v", result)
	}

	strict := validation.MustStrictValidator()
	bad := `{"version":"","root":{"id":"a","type":"Box"}}`
	if result := codec.Deserialize(bad); !result.Success {
		t.Fatalf("structural validation should accept empty version: %s", result.Error)
	}
	if result := codec.Deserialize(bad, codec.WithStrict(strict)); result.Success {
		t.Fatalf("strict validation should reject empty version")
	}
}

func TestDeserializeYAML(t *testing.T) {
	t.Parallel()

	result := codec.DeserializeYAML(`
version: "1.0"
root:
  id: page
  type: Container
  children:
    - id: hello
      type: Text
      text: "Hi {{name}}"
`)
	if !result.Success {
		t.Fatalf("deserialize yaml: %s", result.Error)
	}
	if diff := cmp.Diff([]string{"page", "hello"}, schema.IDs(result.Schema.Root)); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemasEqualIgnoresNumericTypeAndKeyOrder(t *testing.T) {
	t.Parallel()

	a := schema.UISchema{Version: "1", Root: schema.UIComponent{ID: "a", Type: "Box", Props: map[string]any{"x": 1, "y": "z"}}}
	b := schema.UISchema{Version: "1", Root: schema.UIComponent{ID: "a", Type: "Box", Props: map[string]any{"y": "z", "x": 1.0}}}
	if !codec.SchemasEqual(a, b) {
		t.Fatalf("expected schemas to be equal")
	}

	b.Root.Props["x"] = 2
	if codec.SchemasEqual(a, b) {
		t.Fatalf("expected schemas to differ")
	}
}
