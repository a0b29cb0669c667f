package validation

import (
	"bytes"
	"embed"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/uischema.schema.json
var schemaFS embed.FS

const strictSchemaID = "uischema.schema.json"

// StrictValidator validates documents against the bundled JSON Schema of the
// wire format. It is safe for concurrent use once constructed.
type StrictValidator struct {
	schema *jsonschema.Schema
}

// NewStrictValidator compiles the embedded JSON Schema.
func NewStrictValidator() (*StrictValidator, error) {
	data, err := schemaFS.ReadFile("schemas/" + strictSchemaID)
	if err != nil {
		return nil, fmt.Errorf("validation: read embedded schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("validation: parse embedded schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(strictSchemaID, doc); err != nil {
		return nil, fmt.Errorf("validation: add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(strictSchemaID)
	if err != nil {
		return nil, fmt.Errorf("validation: compile schema: %w", err)
	}
	return &StrictValidator{schema: compiled}, nil
}

// MustStrictValidator panics when the embedded schema fails to compile.
func MustStrictValidator() *StrictValidator {
	v, err := NewStrictValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks an untyped JSON value and returns the leaf violations.
func (v *StrictValidator) Validate(doc any) Result {
	if v == nil || v.schema == nil {
		return Result{Valid: true}
	}
	err := v.schema.Validate(doc)
	if err == nil {
		return Result{Valid: true}
	}

	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return Result{Errors: []Error{{Code: CodeSchemaViolation, Message: err.Error()}}}
	}
	return Result{Errors: collectViolations(validationErr)}
}

func collectViolations(ve *jsonschema.ValidationError) []Error {
	if len(ve.Causes) > 0 {
		var out []Error
		for _, cause := range ve.Causes {
			out = append(out, collectViolations(cause)...)
		}
		return out
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	msg := strings.TrimSpace(ve.Error())
	if msg == "" {
		return nil
	}
	return []Error{{Path: path, Code: CodeSchemaViolation, Message: msg}}
}
