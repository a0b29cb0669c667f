package binding

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-uischema/pkg/schema"
)

// Result is a successful resolution. Defined is false when the final segment
// named a key that does not exist; a JSON null yields Value nil with Defined
// true.
type Result struct {
	Value   any
	Defined bool
}

// ResolvePath walks data following path. A nil data root is treated as an
// empty context.
func ResolvePath(path Path, data any) (Result, error) {
	if data == nil {
		data = schema.DataContext{}
	}

	current := data
	defined := true
	expr := path.String()

	fail := func(code ErrorCode, format string, args ...any) (Result, error) {
		return Result{}, &Error{
			Code:       code,
			Message:    fmt.Sprintf(format, args...),
			Expression: expr,
			Position:   -1,
		}
	}

	for _, seg := range path {
		switch seg.Kind {
		case PropertySegment:
			if !defined {
				return fail(CodeNilAccess, "Cannot access property of undefined")
			}
			if current == nil {
				return fail(CodeNilAccess, "Cannot access property of null")
			}
			value, found, isObject := lookupKey(current, seg.Name)
			if !isObject {
				return fail(CodeNonObject, "Cannot access property %q of non-object", seg.Name)
			}
			current, defined = value, found
		case IndexSegment:
			if !defined {
				return fail(CodeNonArray, "Cannot access index %d of non-array", seg.Index)
			}
			items, isArray := asList(current)
			if !isArray {
				return fail(CodeNonArray, "Cannot access index %d of non-array", seg.Index)
			}
			if seg.Index >= items.Len() {
				return fail(CodeOutOfBounds, "Array index %d out of bounds (length: %d)", seg.Index, items.Len())
			}
			current, defined = items.Index(seg.Index).Interface(), true
		}
	}

	if !defined {
		return Result{}, nil
	}
	return Result{Value: current, Defined: true}, nil
}

// ResolveBinding parses a {{path}} expression and resolves it against data.
func ResolveBinding(binding string, data any) (Result, error) {
	parsed, err := ParseBindingExpression(binding)
	if err != nil {
		return Result{}, err
	}
	return ResolvePath(parsed.Segments, data)
}

// lookupKey reads key from a string-keyed map. Arrays also count as objects:
// "length" yields their length and any other key is undefined. isObject is
// false for every other value.
func lookupKey(value any, key string) (result any, found bool, isObject bool) {
	switch typed := value.(type) {
	case map[string]any:
		result, found = typed[key]
		return result, found, true
	case schema.DataContext:
		result, found = typed[key]
		return result, found, true
	case schema.StyleProps:
		result, found = typed[key]
		return result, found, true
	case map[string]string:
		str, ok := typed[key]
		if !ok {
			return nil, false, true
		}
		return str, true, true
	}

	if items, ok := asList(value); ok {
		if key == "length" {
			return items.Len(), true, true
		}
		return nil, false, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false, false
	}
	entry := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !entry.IsValid() {
		return nil, false, true
	}
	return entry.Interface(), true, true
}

func asList(value any) (reflect.Value, bool) {
	if value == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv, true
	default:
		return reflect.Value{}, false
	}
}
