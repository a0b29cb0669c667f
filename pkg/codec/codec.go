// Package codec converts between UI Schema JSON text and schema.UISchema
// values. Deserialize never panics; every failure is reported through the
// returned DeserializeResult so editors can render fix-it feedback.
package codec

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"sigs.k8s.io/yaml"

	"github.com/goliatone/go-uischema/pkg/schema"
	"github.com/goliatone/go-uischema/pkg/validation"
)

const defaultIndent = 2

// SerializeOptions selects compact or pretty output.
type SerializeOptions struct {
	Pretty bool
	// Indent is the number of spaces per level when Pretty is set. Values <= 0
	// fall back to 2.
	Indent int
}

// Serialize encodes the schema as JSON text. Map keys are emitted in sorted
// order so the output is deterministic.
func Serialize(s schema.UISchema, opts SerializeOptions) (string, error) {
	var (
		payload []byte
		err     error
	)
	if opts.Pretty {
		indent := opts.Indent
		if indent <= 0 {
			indent = defaultIndent
		}
		payload, err = json.MarshalIndent(s, "", strings.Repeat(" ", indent))
	} else {
		payload, err = json.Marshal(s)
	}
	if err != nil {
		return "", fmt.Errorf("codec: serialize: %w", err)
	}
	return string(payload), nil
}

// DeserializeResult reports the outcome of Deserialize. When Success is false
// Error holds a human readable message; Position is the rune offset of a JSON
// syntax error, or -1 when not derivable.
type DeserializeResult struct {
	Success  bool
	Schema   schema.UISchema
	Error    string
	Position int
	// Issues lists the individual validation errors joined into Error.
	Issues []validation.Error
}

// Option configures Deserialize.
type Option func(*config)

type config struct {
	validation []validation.Option
	strict     *validation.StrictValidator
}

// WithUniqueIDs rejects documents whose component ids are not unique.
func WithUniqueIDs() Option {
	return func(cfg *config) {
		cfg.validation = append(cfg.validation, validation.WithUniqueIDs())
	}
}

// WithStrict additionally validates the document against the bundled JSON
// Schema. Strict violations are appended after structural errors.
func WithStrict(v *validation.StrictValidator) Option {
	return func(cfg *config) {
		cfg.strict = v
	}
}

// Deserialize parses and validates JSON text.
func Deserialize(text string, options ...Option) DeserializeResult {
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	if strings.TrimSpace(text) == "" {
		return failure("Empty input: schema text is blank", -1)
	}

	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return failure("JSON parse error: "+err.Error(), syntaxPosition(text, err))
	}

	typed, result := validation.Check(raw, cfg.validation...)
	if cfg.strict != nil {
		strict := cfg.strict.Validate(raw)
		result.Errors = append(result.Errors, strict.Errors...)
		result.Valid = result.Valid && strict.Valid
	}
	if !result.Valid {
		out := failure("Validation failed: "+result.Join("; "), -1)
		out.Issues = result.Errors
		return out
	}

	return DeserializeResult{Success: true, Schema: typed, Position: -1}
}

// DeserializeYAML converts YAML text to JSON and deserializes it.
func DeserializeYAML(text string, options ...Option) DeserializeResult {
	if strings.TrimSpace(text) == "" {
		return failure("Empty input: schema text is blank", -1)
	}
	converted, err := yaml.YAMLToJSON([]byte(text))
	if err != nil {
		return failure("YAML parse error: "+err.Error(), -1)
	}
	return Deserialize(string(converted), options...)
}

// MustDeserialize panics when text is not a valid schema. Intended for
// fixtures and init-time wiring.
func MustDeserialize(text string) schema.UISchema {
	result := Deserialize(text)
	if !result.Success {
		panic(fmt.Errorf("codec: %s", result.Error))
	}
	return result.Schema
}

func failure(message string, position int) DeserializeResult {
	return DeserializeResult{Error: message, Position: position}
}

func syntaxPosition(text string, err error) int {
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return -1
	}
	offset := int(syntaxErr.Offset)
	if offset < 0 {
		return -1
	}
	if offset > len(text) {
		offset = len(text)
	}
	return utf8.RuneCountInString(text[:offset])
}
