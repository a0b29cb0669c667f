package components

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Definition describes a component type a renderer knows how to draw.
// Platforms restricts where the type may be rendered; an empty list means
// everywhere.
type Definition struct {
	Type        string   `json:"type" yaml:"type"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Platforms   []string `json:"platforms,omitempty" yaml:"platforms,omitempty"`
	// Container reports whether the component renders children.
	Container bool `json:"container,omitempty" yaml:"container,omitempty"`
}

// Registry stores component definitions by type with duplicate detection. It
// satisfies platform.ComponentRegistry.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]Definition
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[string]Definition),
	}
}

// Register adds a definition. Duplicate types return an error.
func (r *Registry) Register(def Definition) error {
	name := strings.TrimSpace(def.Type)
	if name == "" {
		return fmt.Errorf("components: component type is required")
	}
	def.Type = name
	def.Platforms = append([]string(nil), def.Platforms...)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[name]; exists {
		return fmt.Errorf("components: component %q already registered", name)
	}
	r.definitions[name] = def
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Get retrieves a definition by type.
func (r *Registry) Get(componentType string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.definitions[componentType]
	if !ok {
		return Definition{}, fmt.Errorf("components: component %q not found", componentType)
	}
	def.Platforms = append([]string(nil), def.Platforms...)
	return def, nil
}

// List returns the registered definitions sorted by type.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(r.definitions))
	for _, def := range r.definitions {
		def.Platforms = append([]string(nil), def.Platforms...)
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Types returns a sorted list of registered component types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a component type is registered.
func (r *Registry) Has(componentType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.definitions[componentType]
	return ok
}

// Platforms returns the platform allow-list of componentType, or nil when
// the type is unknown or unrestricted.
func (r *Registry) Platforms(componentType string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.definitions[componentType]
	if !ok || len(def.Platforms) == 0 {
		return nil
	}
	return append([]string(nil), def.Platforms...)
}

// Unknown returns, in first-seen order without duplicates, the types in
// types that are not registered.
func (r *Registry) Unknown(types []string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(types))
	var out []string
	for _, name := range types {
		if _, ok := r.definitions[name]; ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
