package condition

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-uischema/pkg/binding"
)

// Expr is a compiled condition.
//
// Supported forms:
//   - truthiness checks: `{{flags.showOrders}}` or `flags.showOrders`
//   - comparisons: `{{user.role}} == "admin"`, `count != 0`, `{{a}} == {{b}}`
//   - composition: `!`, `&&`, `||` and parentheses
//
// Operands are binding paths, with or without the {{ }} wrapper. Paths that do
// not resolve evaluate as null.
type Expr struct {
	source string
	root   exprNode
	refs   []binding.Path
}

// Compile parses a condition. An empty condition compiles to an expression
// that is always true.
func Compile(condition string) (*Expr, error) {
	trimmed := strings.TrimSpace(condition)
	out := &Expr{source: condition}
	if trimmed == "" {
		return out, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return out, nil
	}

	stream := &tokenStream{tokens: tokens}
	root, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("condition: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	out.root = root
	out.refs = stream.refs
	return out, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(condition string) *Expr {
	expr, err := Compile(condition)
	if err != nil {
		panic(err)
	}
	return expr
}

// String returns the source text.
func (e *Expr) String() string {
	return e.source
}

// Roots returns the distinct first segment names of every path the expression
// reads, sorted.
func (e *Expr) Roots() []string {
	seen := make(map[string]struct{}, len(e.refs))
	for _, path := range e.refs {
		if len(path) > 0 && path[0].Kind == binding.PropertySegment {
			seen[path[0].Name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Eval evaluates the expression against data.
func (e *Expr) Eval(data any) (bool, error) {
	if e.root == nil {
		return true, nil
	}
	return e.root.eval(data)
}

// Evaluate compiles and evaluates condition in one step.
func Evaluate(condition string, data any) (bool, error) {
	expr, err := Compile(condition)
	if err != nil {
		return false, err
	}
	return expr.Eval(data)
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenRef
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	peek := func(offset int) byte {
		if i+offset >= len(input) {
			return 0
		}
		return input[i+offset]
	}

	for i < len(input) {
		ch := input[i]
		if isSpace(ch) {
			i++
			continue
		}

		switch ch {
		case '(':
			i++
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
		case ')':
			i++
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
		case '!':
			if peek(1) == '=' {
				i += 2
				tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
				continue
			}
			i++
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
		case '=':
			if peek(1) != '=' {
				return nil, fmt.Errorf("condition: unexpected '=' at %d; use '=='", i)
			}
			i += 2
			tokens = append(tokens, token{kind: tokenEq, raw: "=="})
		case '&':
			if peek(1) != '&' {
				return nil, fmt.Errorf("condition: unexpected '&' at %d; use '&&'", i)
			}
			i += 2
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
		case '|':
			if peek(1) != '|' {
				return nil, fmt.Errorf("condition: unexpected '|' at %d; use '||'", i)
			}
			i += 2
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
		case '{':
			if peek(1) != '{' {
				return nil, fmt.Errorf("condition: unexpected '{' at %d", i)
			}
			end := strings.Index(input[i+2:], "}}")
			if end < 0 {
				return nil, fmt.Errorf("condition: unterminated placeholder at %d", i)
			}
			inner := strings.TrimSpace(input[i+2 : i+2+end])
			if inner == "" {
				return nil, fmt.Errorf("condition: empty placeholder at %d", i)
			}
			tokens = append(tokens, token{kind: tokenRef, raw: inner})
			i += end + 4
		case '"', '\'':
			quote := ch
			start := i
			i++
			escaped := false
			closed := false
			for i < len(input) {
				c := input[i]
				i++
				if escaped {
					escaped = false
					continue
				}
				if c == '\\' {
					escaped = true
					continue
				}
				if c == quote {
					closed = true
					break
				}
			}
			if !closed {
				return nil, errors.New("condition: unterminated string literal")
			}
			raw := input[start:i]
			if quote == '\'' {
				raw = `"` + strings.ReplaceAll(raw[1:len(raw)-1], `"`, `\"`) + `"`
			}
			value, err := strconv.Unquote(raw)
			if err != nil {
				return nil, fmt.Errorf("condition: invalid string literal: %w", err)
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
		default:
			start := i
			for i < len(input) {
				c := input[i]
				if isSpace(c) || strings.IndexByte("()!=&|{\"'", c) >= 0 {
					break
				}
				i++
			}
			raw := input[start:i]
			switch strings.ToLower(raw) {
			case "true", "false":
				tokens = append(tokens, token{kind: tokenBool, raw: strings.ToLower(raw)})
			case "null", "nil", "undefined":
				tokens = append(tokens, token{kind: tokenNull, raw: "null"})
			default:
				if looksLikeNumber(raw) {
					tokens = append(tokens, token{kind: tokenNumber, raw: raw})
				} else {
					tokens = append(tokens, token{kind: tokenIdentifier, raw: raw})
				}
			}
		}
	}

	return tokens, nil
}

func looksLikeNumber(raw string) bool {
	if raw == "" {
		return false
	}
	ch := raw[0]
	return (ch >= '0' && ch <= '9') || ch == '-' || ch == '+'
}

type exprNode interface {
	eval(data any) (bool, error)
}

type exprOr struct {
	left  exprNode
	right exprNode
}

func (n exprOr) eval(data any) (bool, error) {
	ok, err := n.left.eval(data)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return n.right.eval(data)
}

type exprAnd struct {
	left  exprNode
	right exprNode
}

func (n exprAnd) eval(data any) (bool, error) {
	ok, err := n.left.eval(data)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return n.right.eval(data)
}

type exprNot struct {
	inner exprNode
}

func (n exprNot) eval(data any) (bool, error) {
	ok, err := n.inner.eval(data)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type operandKind int

const (
	litString operandKind = iota
	litNumber
	litBool
	litNull
	operandRef
)

type operand struct {
	kind operandKind
	raw  string
	path binding.Path
}

type exprCompare struct {
	left  binding.Path
	op    tokenKind
	right operand
}

func (n exprCompare) eval(data any) (bool, error) {
	value := lookup(n.left, data)

	var equal bool
	switch n.right.kind {
	case litNull:
		equal = value == nil
	case litBool:
		got, _ := coerceBool(value)
		equal = got == (n.right.raw == "true")
	case litNumber:
		want, err := strconv.ParseFloat(n.right.raw, 64)
		if err != nil {
			return false, fmt.Errorf("condition: invalid number literal %q", n.right.raw)
		}
		got, ok := coerceNumber(value)
		equal = ok && got == want
	case litString:
		equal = value != nil && coerceString(value) == n.right.raw
	case operandRef:
		other := lookup(n.right.path, data)
		equal = valuesEqual(value, other)
	default:
		return false, errors.New("condition: unsupported operand")
	}

	if n.op == tokenNeq {
		return !equal, nil
	}
	return equal, nil
}

type exprTruthy struct {
	path binding.Path
}

func (n exprTruthy) eval(data any) (bool, error) {
	return truthy(lookup(n.path, data)), nil
}

type tokenStream struct {
	tokens []token
	pos    int
	refs   []binding.Path
}

func parseOr(stream *tokenStream) (exprNode, error) {
	left, err := parseAnd(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenOr) {
		right, err := parseAnd(stream)
		if err != nil {
			return nil, err
		}
		left = exprOr{left: left, right: right}
	}
	return left, nil
}

func parseAnd(stream *tokenStream) (exprNode, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenAnd) {
		right, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		left = exprAnd{left: left, right: right}
	}
	return left, nil
}

func parseUnary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenNot) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return exprNot{inner: inner}, nil
	}
	return parsePrimary(stream)
}

func parsePrimary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenLParen) {
		inner, err := parseOr(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("condition: missing closing ')'")
		}
		return inner, nil
	}

	if stream.pos >= len(stream.tokens) {
		return nil, errors.New("condition: unexpected end of expression")
	}
	tok := stream.tokens[stream.pos]
	if tok.kind != tokenIdentifier && tok.kind != tokenRef {
		return nil, fmt.Errorf("condition: expected a path, got %q", tok.raw)
	}
	stream.pos++
	left, err := stream.path(tok.raw)
	if err != nil {
		return nil, err
	}

	for _, op := range []tokenKind{tokenEq, tokenNeq} {
		if stream.match(op) {
			right, err := stream.consumeOperand()
			if err != nil {
				return nil, err
			}
			return exprCompare{left: left, op: op, right: right}, nil
		}
	}
	return exprTruthy{path: left}, nil
}

func (s *tokenStream) path(raw string) (binding.Path, error) {
	parsed, err := binding.ParsePath(raw)
	if err != nil {
		return nil, fmt.Errorf("condition: %w", err)
	}
	s.refs = append(s.refs, parsed.Segments)
	return parsed.Segments, nil
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) consumeOperand() (operand, error) {
	if s.pos >= len(s.tokens) {
		return operand{}, errors.New("condition: missing right-hand operand")
	}
	tok := s.tokens[s.pos]
	s.pos++
	switch tok.kind {
	case tokenString:
		return operand{kind: litString, raw: tok.raw}, nil
	case tokenNumber:
		return operand{kind: litNumber, raw: tok.raw}, nil
	case tokenBool:
		return operand{kind: litBool, raw: tok.raw}, nil
	case tokenNull:
		return operand{kind: litNull, raw: tok.raw}, nil
	case tokenIdentifier:
		// bare words on the right compare as strings: role == admin
		return operand{kind: litString, raw: tok.raw}, nil
	case tokenRef:
		path, err := s.path(tok.raw)
		if err != nil {
			return operand{}, err
		}
		return operand{kind: operandRef, raw: tok.raw, path: path}, nil
	default:
		return operand{}, fmt.Errorf("condition: expected a value, got %q", tok.raw)
	}
}

func lookup(path binding.Path, data any) any {
	result, err := binding.ResolvePath(path, data)
	if err != nil || !result.Defined {
		return nil
	}
	return result.Value
}

func truthy(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		if f, ok := coerceNumber(value); ok {
			return f != 0
		}
		return true
	}
}

func coerceBool(value any) (bool, bool) {
	if value == nil {
		return false, false
	}
	if v, ok := value.(string); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed, true
		}
	}
	return truthy(value), true
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return binding.Stringify(binding.Result{Value: value, Defined: true})
	}
}

func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if x, ok := coerceNumber(a); ok {
		if y, ok := coerceNumber(b); ok {
			return x == y
		}
	}
	return coerceString(a) == coerceString(b)
}
