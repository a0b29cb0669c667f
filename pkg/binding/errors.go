package binding

import "errors"

// ErrorCode classifies binding failures.
type ErrorCode string

// Parse failures.
const (
	CodeEmptyExpression ErrorCode = "EMPTY_EXPRESSION"
	CodeLeadingDot      ErrorCode = "LEADING_DOT"
	CodeUnclosedBracket ErrorCode = "UNCLOSED_BRACKET"
	CodeInvalidIndex    ErrorCode = "INVALID_INDEX"
	CodeInvalidFormat   ErrorCode = "INVALID_FORMAT"
	CodeInvalidSyntax   ErrorCode = "INVALID_SYNTAX"
)

// Resolution failures.
const (
	CodeNilAccess   ErrorCode = "NIL_ACCESS"
	CodeNonObject   ErrorCode = "NON_OBJECT"
	CodeNonArray    ErrorCode = "NON_ARRAY"
	CodeOutOfBounds ErrorCode = "OUT_OF_BOUNDS"
)

// Error is returned by every parse and resolve operation in this package.
// Position is the byte offset in the input where parsing stopped, or -1 for
// resolution failures.
type Error struct {
	Code       ErrorCode
	Message    string
	Expression string
	Position   int
}

func (e *Error) Error() string {
	return e.Message
}

// IsParseError reports whether err is a binding syntax error.
func IsParseError(err error) bool {
	var bindingErr *Error
	if !errors.As(err, &bindingErr) {
		return false
	}
	switch bindingErr.Code {
	case CodeNilAccess, CodeNonObject, CodeNonArray, CodeOutOfBounds:
		return false
	default:
		return true
	}
}

// CodeOf returns the code carried by err, or "" when err is not an *Error.
func CodeOf(err error) ErrorCode {
	var bindingErr *Error
	if errors.As(err, &bindingErr) {
		return bindingErr.Code
	}
	return ""
}
