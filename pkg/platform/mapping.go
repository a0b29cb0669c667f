package platform

import "sort"

// Supported platform identifiers.
const (
	Web          = "web"
	MobileWeb    = "mobile-web"
	MiniProgram  = "mini-program"
	MobileNative = "mobile-native"
)

// Mapping renames keys from the authoring vocabulary to a platform's
// vocabulary. A key without an entry keeps its name.
type Mapping struct {
	Props  map[string]string `json:"props,omitempty" yaml:"props,omitempty"`
	Styles map[string]string `json:"styles,omitempty" yaml:"styles,omitempty"`
	Events map[string]string `json:"events,omitempty" yaml:"events,omitempty"`
}

// IsEmpty reports whether the mapping renames nothing.
func (m Mapping) IsEmpty() bool {
	return len(m.Props) == 0 && len(m.Styles) == 0 && len(m.Events) == 0
}

// Clone returns a deep copy.
func (m Mapping) Clone() Mapping {
	return Mapping{
		Props:  cloneNames(m.Props),
		Styles: cloneNames(m.Styles),
		Events: cloneNames(m.Events),
	}
}

// Merge returns m with every entry of over layered on top.
func (m Mapping) Merge(over Mapping) Mapping {
	return Mapping{
		Props:  mergeNames(m.Props, over.Props),
		Styles: mergeNames(m.Styles, over.Styles),
		Events: mergeNames(m.Events, over.Events),
	}
}

// Invert swaps keys and values. When several keys share a value the
// lexically smallest key is kept.
func (m Mapping) Invert() Mapping {
	return Mapping{
		Props:  invertNames(m.Props),
		Styles: invertNames(m.Styles),
		Events: invertNames(m.Events),
	}
}

// compose returns the mapping that applies from and then to, dropping entries
// that end up unchanged.
func compose(from, to Mapping) Mapping {
	return Mapping{
		Props:  composeNames(from.Props, to.Props),
		Styles: composeNames(from.Styles, to.Styles),
		Events: composeNames(from.Events, to.Events),
	}
}

func cloneNames(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func mergeNames(base, over map[string]string) map[string]string {
	if len(over) == 0 {
		return cloneNames(base)
	}
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func invertNames(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	keys := sortedKeys(in)
	out := make(map[string]string, len(in))
	for _, k := range keys {
		v := in[k]
		if _, taken := out[v]; taken {
			continue
		}
		out[v] = k
	}
	return out
}

func composeNames(from, to map[string]string) map[string]string {
	if len(from) == 0 && len(to) == 0 {
		return nil
	}
	out := make(map[string]string)
	apply := func(key string) {
		mid, ok := from[key]
		if !ok {
			mid = key
		}
		final, ok := to[mid]
		if !ok {
			final = mid
		}
		if final != key {
			out[key] = final
		}
	}
	for key := range from {
		apply(key)
	}
	for key := range to {
		if _, seen := from[key]; !seen {
			apply(key)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
