package report_test

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-uischema/pkg/binding"
	"github.com/goliatone/go-uischema/pkg/report"
)

func TestFieldsReport(t *testing.T) {
	t.Parallel()

	engine, err := report.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	fields := []binding.DataField{
		{Binding: "{{user.name}}", Path: "user.name", ComponentID: "title", Property: "text"},
		{Binding: "{{user.name}}", Path: "user.name", ComponentID: "card", Property: "props.a|b"},
		{Binding: "{{orders}}", Path: "orders", ComponentID: "list", Property: "loop.source"},
	}

	var out bytes.Buffer
	if err := engine.Fields(&out, "Profile <bindings>", fields); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := out.String()

	for _, want := range []string{
		"# Profile <bindings>\n",
		"3 binding(s) across 2 distinct path(s).",
		"| Component | Property | Path |",
		"| title | text | `user.name` |",
		"| card | props.a\\|b | `user.name` |",
		"| list | loop.source | `orders` |",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("report missing %q:\n%s", want, got)
		}
	}
}

func TestFieldsReportDefaultTitle(t *testing.T) {
	t.Parallel()

	engine, err := report.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	var out bytes.Buffer
	if err := engine.Fields(&out, "", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out.String(), "# Data bindings\n") {
		t.Fatalf("unexpected header:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "0 binding(s) across 0 distinct path(s).") {
		t.Fatalf("unexpected summary:\n%s", out.String())
	}
}

func TestCustomTemplates(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"hello.txt": {Data: []byte("Hi {{ name }} on {{ env }}")},
	}
	engine, err := report.New(
		report.WithFS(files),
		report.WithExtension("txt"),
		report.WithGlobalData(map[string]any{"env": "staging"}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	var out bytes.Buffer
	if err := engine.Render("hello", map[string]any{"name": "Ada"}, &out); err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.String() != "Hi Ada on staging" {
		t.Fatalf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := engine.Render("hello.txt", map[string]any{"name": "Grace"}, &out); err != nil {
		t.Fatalf("render with extension: %v", err)
	}
	if out.String() != "Hi Grace on staging" {
		t.Fatalf("unexpected output: %q", out.String())
	}

	if err := engine.Render(report.FieldsTemplate, nil, &out); err == nil {
		t.Fatalf("custom FS must not fall back to bundled templates")
	}
}

func TestRenderString(t *testing.T) {
	t.Parallel()

	engine, err := report.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	type row struct {
		Name string `json:"name"`
	}
	var out bytes.Buffer
	err = engine.RenderString(`{% for r in rows %}{{ r.name|mdcell }};{% endfor %}`, map[string]any{
		"rows": []row{{Name: "a|b"}, {Name: "c"}},
	}, &out)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.String() != `a\|b;c;` {
		t.Fatalf("unexpected output: %q", out.String())
	}

	if err := engine.RenderString("{% for %}", nil, &out); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestNilEngine(t *testing.T) {
	t.Parallel()

	var engine *report.Engine
	if err := engine.Render("fields", nil, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error from nil engine")
	}
}
