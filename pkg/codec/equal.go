package codec

import (
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-uischema/pkg/schema"
)

// SchemasEqual reports whether two schemas are structurally equivalent: same
// fields, same nesting and same scalar values, independent of map key order
// and of the Go numeric type used for a JSON number. Schemas that cannot be
// encoded are never equal.
func SchemasEqual(a, b schema.UISchema) bool {
	left, err := canonical(a)
	if err != nil {
		return false
	}
	right, err := canonical(b)
	if err != nil {
		return false
	}
	return cmp.Equal(left, right)
}

// Canonical returns the generic JSON tree for a schema (objects as
// map[string]any, arrays as []any, numbers as float64).
func Canonical(s schema.UISchema) (any, error) {
	return canonical(s)
}

func canonical(s schema.UISchema) (any, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}
