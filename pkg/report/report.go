package report

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-uischema/pkg/binding"
)

//go:embed templates/*.tpl
var embedded embed.FS

// FieldsTemplate is the name of the bundled bindings report.
const FieldsTemplate = "fields"

// Option configures an Engine before construction.
type Option func(*config)

type config struct {
	templates  fs.FS
	extension  string
	globalData map[string]any
}

// WithFS loads templates from files instead of the bundled set. Names missing
// from files are not looked up in the bundled set.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the ".tpl" template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobalData seeds values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine renders text reports from pongo2 templates. It is safe for
// concurrent use.
type Engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	ext       string
}

var registerFilters sync.Once

// New constructs an Engine. Without WithFS the bundled templates are used.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tpl"}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	files := cfg.templates
	if files == nil {
		sub, err := fs.Sub(embedded, "templates")
		if err != nil {
			return nil, fmt.Errorf("report: open bundled templates: %w", err)
		}
		files = sub
	}

	registerFilters.Do(func() {
		if !pongo2.FilterExists("mdcell") {
			_ = pongo2.RegisterFilter("mdcell", filterMarkdownCell)
		}
	})

	engine := &Engine{
		set:       pongo2.NewSet("uischema", pongo2.NewFSLoader(files)),
		templates: make(map[string]*pongo2.Template),
		ext:       cfg.extension,
	}
	if len(cfg.globalData) > 0 {
		globals, err := toContext(cfg.globalData)
		if err != nil {
			return nil, fmt.Errorf("report: apply global data: %w", err)
		}
		if engine.set.Globals == nil {
			engine.set.Globals = make(pongo2.Context)
		}
		engine.set.Globals.Update(globals)
	}
	return engine, nil
}

// Render executes the named template with data and writes the result to out.
// data is normalised through JSON, so struct values are addressed by their
// json field names.
func (e *Engine) Render(name string, data any, out io.Writer) error {
	if e == nil || e.set == nil {
		return errors.New("report: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}

	tmpl, err := e.template(path)
	if err != nil {
		return err
	}
	return e.execute(tmpl, path, data, out)
}

// RenderString executes template source directly.
func (e *Engine) RenderString(source string, data any, out io.Writer) error {
	if e == nil || e.set == nil {
		return errors.New("report: engine is nil")
	}
	tmpl, err := e.set.FromString(source)
	if err != nil {
		return fmt.Errorf("report: parse template string: %w", err)
	}
	return e.execute(tmpl, "string", data, out)
}

// Fields renders the bundled bindings report for fields.
func (e *Engine) Fields(out io.Writer, title string, fields []binding.DataField) error {
	return e.Render(FieldsTemplate, map[string]any{
		"title":  title,
		"fields": fields,
		"paths":  distinctPaths(fields),
	}, out)
}

func (e *Engine) execute(tmpl *pongo2.Template, name string, data any, out io.Writer) error {
	ctx, err := toContext(data)
	if err != nil {
		return fmt.Errorf("report: convert data: %w", err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("report: execute template %q: %w", name, err)
	}

	_, err = out.Write(buf.Bytes())
	return err
}

func (e *Engine) template(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("report: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

func distinctPaths(fields []binding.DataField) []string {
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, ok := seen[field.Path]; ok {
			continue
		}
		seen[field.Path] = struct{}{}
		out = append(out, field.Path)
	}
	return out
}

func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	out := pongo2.Context{}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func filterMarkdownCell(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	text := strings.ReplaceAll(in.String(), "|", `\|`)
	text = strings.ReplaceAll(text, "\n", " ")
	return pongo2.AsValue(text), nil
}
