package binding

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Placeholder is one {{...}} occurrence inside free text. Start and End are
// byte offsets of the full placeholder (End exclusive). Inner is the raw text
// between the braces.
type Placeholder struct {
	Raw   string
	Inner string
	Start int
	End   int
}

// Parse parses the placeholder's path using the same rules as ParsePath.
// Error positions are reported relative to the enclosing text.
func (p Placeholder) Parse() (ParseResult, error) {
	return parsePath(p.Inner, p.Start+len(openDelim))
}

// Placeholders scans text left to right for "{{" followed by at least one
// character other than '}' and then "}}". Occurrences never overlap.
func Placeholders(text string) []Placeholder {
	var out []Placeholder
	pos := 0
	for pos < len(text) {
		start := strings.Index(text[pos:], openDelim)
		if start < 0 {
			break
		}
		start += pos

		innerStart := start + len(openDelim)
		innerEnd := innerStart
		for innerEnd < len(text) && text[innerEnd] != '}' {
			innerEnd++
		}
		if innerEnd == innerStart || !strings.HasPrefix(text[innerEnd:], closeDelim) {
			pos = start + 1
			continue
		}

		end := innerEnd + len(closeDelim)
		out = append(out, Placeholder{
			Raw:   text[start:end],
			Inner: text[innerStart:innerEnd],
			Start: start,
			End:   end,
		})
		pos = end
	}
	return out
}

// HasPlaceholders reports whether text contains at least one placeholder.
func HasPlaceholders(text string) bool {
	return len(Placeholders(text)) > 0
}

// Sanitizer filters substituted values before they are spliced into a
// template. *bluemonday.Policy satisfies it.
type Sanitizer interface {
	Sanitize(string) string
}

// TemplateOption configures ResolveBindings and Bind.
type TemplateOption func(*templateConfig)

type templateConfig struct {
	sanitizer Sanitizer
	// scoped holds loop variable names whose placeholders are left in place.
	scoped map[string]struct{}
}

// WithSanitizer filters every substituted value through s. The literal text
// around placeholders is left as-is.
func WithSanitizer(s Sanitizer) TemplateOption {
	return func(cfg *templateConfig) {
		cfg.sanitizer = s
	}
}

func newTemplateConfig(options []TemplateOption) templateConfig {
	cfg := templateConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// ResolveBindings replaces every placeholder in template with its resolved
// value. A placeholder that fails to parse or resolve is kept verbatim.
// Missing and null values render as the empty string.
func ResolveBindings(template string, data any, options ...TemplateOption) string {
	cfg := newTemplateConfig(options)
	return cfg.render(template, data)
}

func (cfg templateConfig) render(template string, data any) string {
	occurrences := Placeholders(template)
	if len(occurrences) == 0 {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))
	last := 0
	for _, occ := range occurrences {
		b.WriteString(template[last:occ.Start])
		last = occ.End

		parsed, err := occ.Parse()
		if err != nil || cfg.isScoped(parsed.Segments) {
			b.WriteString(occ.Raw)
			continue
		}
		resolved, err := ResolvePath(parsed.Segments, data)
		if err != nil {
			b.WriteString(occ.Raw)
			continue
		}
		b.WriteString(cfg.sanitize(Stringify(resolved)))
	}
	b.WriteString(template[last:])
	return b.String()
}

func (cfg templateConfig) isScoped(path Path) bool {
	if len(cfg.scoped) == 0 || len(path) == 0 {
		return false
	}
	_, ok := cfg.scoped[path[0].Name]
	return ok
}

func (cfg templateConfig) sanitize(value string) string {
	if cfg.sanitizer == nil || value == "" {
		return value
	}
	return cfg.sanitizer.Sanitize(value)
}

// Stringify renders a resolved value for text substitution: undefined and null
// become "", objects and arrays their JSON text, everything else its natural
// string form.
func Stringify(r Result) string {
	if !r.Defined || r.Value == nil {
		return ""
	}

	switch v := r.Value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatFloat(v, 64)
	case float32:
		return formatFloat(float64(v), 32)
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(r.Value)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		payload, err := json.Marshal(r.Value)
		if err != nil {
			return fmt.Sprint(r.Value)
		}
		return string(payload)
	default:
		return fmt.Sprint(r.Value)
	}
}

// formatFloat mirrors the way JSON numbers are usually displayed: integers
// without a fraction, no exponent below 1e21.
func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if math.Abs(f) >= 1e21 || (f != 0 && math.Abs(f) < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
