package uischema

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-uischema/pkg/binding"
	"github.com/goliatone/go-uischema/pkg/codec"
	"github.com/goliatone/go-uischema/pkg/components"
	"github.com/goliatone/go-uischema/pkg/condition"
	"github.com/goliatone/go-uischema/pkg/platform"
	"github.com/goliatone/go-uischema/pkg/schema"
	"github.com/goliatone/go-uischema/pkg/validation"
)

// Schema aliases schema.UISchema for callers that only import the root
// package.
type Schema = schema.UISchema

// Component aliases schema.UIComponent.
type Component = schema.UIComponent

// DataContext aliases schema.DataContext.
type DataContext = schema.DataContext

// DataField aliases binding.DataField.
type DataField = binding.DataField

// ErrInvalidSchema is wrapped by every error Process returns for text that
// does not deserialize into a valid schema.
var ErrInvalidSchema = errors.New("uischema: invalid schema")

// ParseError carries the deserializer's diagnostics. It unwraps to
// ErrInvalidSchema.
type ParseError struct {
	Message  string
	Position int
	Issues   []validation.Error
}

func (e *ParseError) Error() string {
	return "uischema: " + e.Message
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidSchema
}

// Parse deserializes and validates schema text.
func Parse(text string, options ...codec.Option) codec.DeserializeResult {
	return codec.Deserialize(text, options...)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAdapter sets the platform adapter. Defaults to platform.New wired to the
// pipeline's registry.
func WithAdapter(adapter *platform.Adapter) Option {
	return func(p *Pipeline) {
		p.adapter = adapter
	}
}

// WithRegistry sets the component catalogue used to flag unknown and
// unsupported types. Defaults to components.NewDefaultRegistry.
func WithRegistry(registry *components.Registry) Option {
	return func(p *Pipeline) {
		p.registry = registry
	}
}

// WithBindOptions forwards options to binding.Bind.
func WithBindOptions(options ...binding.TemplateOption) Option {
	return func(p *Pipeline) {
		p.bindOptions = append(p.bindOptions, options...)
	}
}

// WithDeserializeOptions forwards options to codec.Deserialize.
func WithDeserializeOptions(options ...codec.Option) Option {
	return func(p *Pipeline) {
		p.decodeOptions = append(p.decodeOptions, options...)
	}
}

// WithConditionPruning evaluates component conditions before binding and
// drops the components whose condition is false. Conditions that read loop
// variables are left in place.
func WithConditionPruning() Option {
	return func(p *Pipeline) {
		p.prune = true
	}
}

// Pipeline runs the full engine: deserialize, extract bindings, bind data and
// adapt to a platform.
type Pipeline struct {
	adapter       *platform.Adapter
	registry      *components.Registry
	bindOptions   []binding.TemplateOption
	decodeOptions []codec.Option
	prune         bool
}

// NewPipeline constructs a pipeline with the supplied options.
func NewPipeline(options ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	if p.registry == nil {
		p.registry = components.NewDefaultRegistry()
	}
	if p.adapter == nil {
		p.adapter = platform.New(platform.WithRegistry(p.registry))
	}
	return p
}

// Adapter exposes the pipeline's adapter so callers can register custom
// mappings.
func (p *Pipeline) Adapter() *platform.Adapter {
	return p.adapter
}

// Output is the result of one pipeline run.
type Output struct {
	// Schema is the validated schema as parsed.
	Schema schema.UISchema
	// Fields lists every binding found in Schema.
	Fields []binding.DataField
	// Rendered is Schema with data bound and names adapted to Platform.
	Rendered schema.UISchema
	Platform string
	// UnknownTypes lists component types missing from the registry.
	UnknownTypes []string
	// Unsupported lists component types used by the schema that the registry
	// restricts away from Platform.
	Unsupported []string
}

// Process parses text and runs it through the pipeline. An empty platform
// skips adaptation.
func (p *Pipeline) Process(text string, data schema.DataContext, target string) (Output, error) {
	result := codec.Deserialize(text, p.decodeOptions...)
	if !result.Success {
		return Output{}, &ParseError{
			Message:  result.Error,
			Position: result.Position,
			Issues:   result.Issues,
		}
	}
	return p.ProcessSchema(result.Schema, data, target)
}

// ProcessSchema runs an already parsed schema through the pipeline. It only
// fails when condition pruning is enabled and a condition cannot be compiled
// or hides the root component.
func (p *Pipeline) ProcessSchema(s schema.UISchema, data schema.DataContext, target string) (Output, error) {
	out := Output{
		Schema:   s,
		Fields:   binding.ExtractDataFields(s),
		Platform: target,
	}

	visible := s
	if p.prune {
		var err error
		if visible, err = condition.Prune(s, data); err != nil {
			return Output{}, fmt.Errorf("uischema: %w", err)
		}
	}

	rendered := binding.Bind(visible, data, p.bindOptions...)
	if target != "" {
		rendered = p.adapter.Adapt(rendered, target)
	}
	out.Rendered = rendered

	types := componentTypes(s.Root)
	out.UnknownTypes = p.registry.Unknown(types)
	if target != "" {
		for _, componentType := range types {
			if !p.adapter.IsSupported(componentType, target) {
				out.Unsupported = append(out.Unsupported, componentType)
			}
		}
	}
	return out, nil
}

// componentTypes returns the distinct types used under root, sorted.
func componentTypes(root schema.UIComponent) []string {
	seen := make(map[string]struct{})
	schema.Walk(root, func(node schema.UIComponent, _ string) bool {
		seen[node.Type] = struct{}{}
		return true
	})
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
