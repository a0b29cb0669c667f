package validation

import (
	"fmt"
	"strings"
)

// Code classifies a validation error. The set is closed.
type Code string

const (
	CodeMissingField Code = "MISSING_FIELD"
	CodeInvalidType  Code = "INVALID_TYPE"
	// CodeDuplicateID is only produced when WithUniqueIDs is enabled.
	CodeDuplicateID Code = "DUPLICATE_ID"
	// CodeSchemaViolation is produced by StrictValidator.
	CodeSchemaViolation Code = "SCHEMA_VIOLATION"
)

// Error describes one structural problem. Path uses dotted/bracketed notation
// ("root.children[2].id"); an empty path refers to the document itself.
type Error struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    Code   `json:"code"`
}

func (e Error) String() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Result is the outcome of a validation pass. Errors keeps discovery order.
type Result struct {
	Valid  bool    `json:"valid"`
	Errors []Error `json:"errors,omitempty"`
}

// Messages renders every error with its path prefix.
func (r Result) Messages() []string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := make([]string, len(r.Errors))
	for idx, err := range r.Errors {
		out[idx] = err.String()
	}
	return out
}

// Join renders all errors as a single string using sep.
func (r Result) Join(sep string) string {
	return strings.Join(r.Messages(), sep)
}

// HasCode reports whether any error carries code.
func (r Result) HasCode(code Code) bool {
	for _, err := range r.Errors {
		if err.Code == code {
			return true
		}
	}
	return false
}
