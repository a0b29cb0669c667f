package binding

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SegmentKind distinguishes property access from array indexing.
type SegmentKind uint8

const (
	PropertySegment SegmentKind = iota
	IndexSegment
)

// Segment is one step of a binding path.
type Segment struct {
	Kind  SegmentKind
	Name  string
	Index int
}

// Property builds a property segment.
func Property(name string) Segment {
	return Segment{Kind: PropertySegment, Name: name}
}

// Index builds an array index segment.
func Index(idx int) Segment {
	return Segment{Kind: IndexSegment, Index: idx}
}

func (s Segment) String() string {
	if s.Kind == IndexSegment {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Name
}

// Path is an ordered list of segments.
type Path []Segment

// String renders the canonical expression, e.g. "items[2].name".
func (p Path) String() string {
	var b strings.Builder
	for idx, seg := range p {
		if seg.Kind == PropertySegment && idx > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

// ParseResult is a successfully parsed expression. Expression is the trimmed
// path text without braces.
type ParseResult struct {
	Segments   Path
	Expression string
}

// ParsePath parses a bare path such as "items[2].name".
func ParsePath(expr string) (ParseResult, error) {
	return parsePath(expr, 0)
}

// ParseBindingExpression parses a string that must consist of exactly one
// {{path}} placeholder. Surrounding whitespace is ignored; any other text
// around the braces is rejected.
func ParseBindingExpression(str string) (ParseResult, error) {
	lead := len(str) - len(strings.TrimLeftFunc(str, unicode.IsSpace))
	trimmed := strings.TrimSpace(str)
	if len(trimmed) < len("{{x}}") || !strings.HasPrefix(trimmed, "{{") || !strings.HasSuffix(trimmed, "}}") {
		return ParseResult{}, &Error{
			Code:       CodeInvalidFormat,
			Message:    "Invalid binding format",
			Expression: str,
			Position:   0,
		}
	}
	return parsePath(trimmed[2:len(trimmed)-2], lead+2)
}

// parsePath parses expr; base is the byte offset of expr inside the caller's
// input and is only used for error positions.
func parsePath(expr string, base int) (ParseResult, error) {
	lead := len(expr) - len(strings.TrimLeftFunc(expr, unicode.IsSpace))
	src := strings.TrimSpace(expr)
	base += lead

	fail := func(code ErrorCode, pos int, format string, args ...any) (ParseResult, error) {
		return ParseResult{}, &Error{
			Code:       code,
			Message:    fmt.Sprintf(format, args...),
			Expression: expr,
			Position:   base + pos,
		}
	}

	if src == "" {
		return fail(CodeEmptyExpression, 0, "Empty expression")
	}
	if src[0] == '.' {
		return fail(CodeLeadingDot, 0, "Invalid expression: leading dot")
	}

	var segments Path
	pos := 0
	for {
		start := pos
		pos = scanIdentifier(src, pos)
		if pos == start {
			if pos >= len(src) || src[pos] == '.' {
				return fail(CodeInvalidSyntax, pos, "Invalid expression: empty segment")
			}
			return fail(CodeInvalidSyntax, pos, "Invalid expression: unexpected character %q at %d", runeAt(src, pos), base+pos)
		}
		segments = append(segments, Property(src[start:pos]))

		for pos < len(src) && src[pos] == '[' {
			closing := strings.IndexByte(src[pos+1:], ']')
			if closing < 0 {
				return fail(CodeUnclosedBracket, pos, "Invalid expression: unclosed bracket")
			}
			raw := src[pos+1 : pos+1+closing]
			idx, ok := parseIndex(raw)
			if !ok {
				return fail(CodeInvalidIndex, pos+1, "Invalid array index: %s", raw)
			}
			segments = append(segments, Index(idx))
			pos += closing + 2
		}

		if pos >= len(src) {
			break
		}
		if src[pos] != '.' {
			return fail(CodeInvalidSyntax, pos, "Invalid expression: unexpected character %q at %d", runeAt(src, pos), base+pos)
		}
		pos++
	}

	return ParseResult{Segments: segments, Expression: src}, nil
}

func scanIdentifier(src string, pos int) int {
	for pos < len(src) {
		r, size := utf8.DecodeRuneInString(src[pos:])
		if !isIdentRune(r) {
			break
		}
		pos += size
	}
	return pos
}

func isIdentRune(r rune) bool {
	if r == '_' || r == '$' || r == '-' {
		return true
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func runeAt(src string, pos int) rune {
	r, _ := utf8.DecodeRuneInString(src[pos:])
	return r
}

func parseIndex(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return idx, true
}
