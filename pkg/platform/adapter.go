package platform

import (
	"io"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-uischema/pkg/schema"
)

// ComponentRegistry exposes the per-type platform allow-lists the adapter
// consults. A type with no declared platforms is available everywhere.
type ComponentRegistry interface {
	Types() []string
	Platforms(componentType string) []string
}

// Logger receives diagnostic messages. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithRegistry attaches the registry used by IsSupported and
// UnsupportedComponents.
func WithRegistry(registry ComponentRegistry) Option {
	return func(a *Adapter) {
		a.registry = registry
	}
}

// WithLogger routes diagnostics (unknown platforms, renaming collisions) to
// logger. The default discards them.
func WithLogger(logger Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithSourcePlatform sets the vocabulary schemas are authored in. Defaults to
// Web.
func WithSourcePlatform(platform string) Option {
	return func(a *Adapter) {
		if trimmed := strings.TrimSpace(platform); trimmed != "" {
			a.source = trimmed
		}
	}
}

// WithTables replaces the bundled mapping tables.
func WithTables(tables *Tables) Option {
	return func(a *Adapter) {
		if tables != nil {
			a.tables = tables
		}
	}
}

// Adapter renames schema keys for a target platform. It is safe for
// concurrent use.
type Adapter struct {
	tables   *Tables
	source   string
	registry ComponentRegistry
	logger   Logger

	mu     sync.RWMutex
	custom map[string]map[string]Mapping
}

// New constructs an Adapter using the bundled tables unless WithTables is
// supplied.
func New(options ...Option) *Adapter {
	a := &Adapter{
		source: Web,
		logger: log.New(io.Discard, "", 0),
		custom: make(map[string]map[string]Mapping),
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	if a.tables == nil {
		a.tables = DefaultTables()
	}
	return a
}

// SourcePlatform returns the platform schemas are assumed to be authored for.
func (a *Adapter) SourcePlatform() string {
	return a.source
}

// Platforms lists the platforms with a mapping table.
func (a *Adapter) Platforms() []string {
	return a.tables.Platforms()
}

// RegisterMapping installs a custom override for componentType on platform.
// A later registration for the same pair replaces the earlier one.
func (a *Adapter) RegisterMapping(componentType, platform string, mapping Mapping) {
	a.mu.Lock()
	defer a.mu.Unlock()

	byType, ok := a.custom[platform]
	if !ok {
		byType = make(map[string]Mapping)
		a.custom[platform] = byType
	}
	byType[componentType] = mapping.Clone()
}

// MergedMapping returns the three layers for componentType on platform merged
// into one authoring-to-platform mapping.
func (a *Adapter) MergedMapping(componentType, platform string) Mapping {
	merged, ok := a.tables.Mapping(componentType, platform)
	if !ok {
		merged = Mapping{}
	}
	if custom, ok := a.customMapping(componentType, platform); ok {
		merged = merged.Merge(custom)
	}
	return merged
}

func (a *Adapter) customMapping(componentType, platform string) (Mapping, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	custom, ok := a.custom[platform][componentType]
	if !ok {
		return Mapping{}, false
	}
	return custom.Clone(), true
}

// GetMapping returns the renames that take a componentType node written for
// source to target. The source side is undone with its table mapping only;
// custom overrides apply when their platform is the target. Identical
// platforms yield just the target's custom overrides.
func (a *Adapter) GetMapping(componentType, source, target string) Mapping {
	if source == target {
		custom, _ := a.customMapping(componentType, target)
		return custom
	}
	if !a.tables.Has(target) {
		a.logger.Printf("platform: no mapping table for target platform %q; only custom overrides apply", target)
	}
	from, ok := a.tables.Mapping(componentType, source)
	if !ok {
		from = Mapping{}
	}
	to := a.MergedMapping(componentType, target)
	return compose(from.Invert(), to)
}

// IsSupported reports whether componentType may be rendered on platform.
func (a *Adapter) IsSupported(componentType, platform string) bool {
	if a.registry == nil {
		return true
	}
	allowed := a.registry.Platforms(componentType)
	if len(allowed) == 0 {
		return true
	}
	for _, candidate := range allowed {
		if candidate == platform {
			return true
		}
	}
	return false
}

// UnsupportedComponents lists, in sorted order, the registered types whose
// allow-list excludes platform.
func (a *Adapter) UnsupportedComponents(platform string) []string {
	if a.registry == nil {
		return nil
	}
	var out []string
	for _, componentType := range a.registry.Types() {
		if !a.IsSupported(componentType, platform) {
			out = append(out, componentType)
		}
	}
	sort.Strings(out)
	return out
}

// Adapt returns a copy of s with prop, style and event names rewritten for
// target. Values, ids, types, text, children, data and meta are preserved.
func (a *Adapter) Adapt(s schema.UISchema, target string) schema.UISchema {
	out := s.Clone()
	cache := make(map[string]Mapping)
	out.Root = a.adaptComponent(out.Root, target, cache)
	return out
}

// AdaptComponent adapts a single subtree.
func (a *Adapter) AdaptComponent(node schema.UIComponent, target string) schema.UIComponent {
	return a.adaptComponent(node.Clone(), target, make(map[string]Mapping))
}

// adaptComponent rewrites node in place; node must already be a private copy.
func (a *Adapter) adaptComponent(node schema.UIComponent, target string, cache map[string]Mapping) schema.UIComponent {
	mapping, ok := cache[node.Type]
	if !ok {
		mapping = a.GetMapping(node.Type, a.source, target)
		cache[node.Type] = mapping
	}

	if !mapping.IsEmpty() {
		node.Props = renameKeys(node.Props, mapping.Props, a.collisionLogger(node, "props"))
		node.Style = renameKeys(node.Style, mapping.Styles, a.collisionLogger(node, "style"))
		for idx := range node.Events {
			if renamed, ok := mapping.Events[node.Events[idx].Event]; ok {
				node.Events[idx].Event = renamed
			}
		}
	}

	for idx, child := range node.Children {
		node.Children[idx] = a.adaptComponent(child, target, cache)
	}
	return node
}

func (a *Adapter) collisionLogger(node schema.UIComponent, field string) func(key, name string) {
	return func(key, name string) {
		a.logger.Printf("platform: component %q (%s) %s key %q kept its name; %q is already taken", node.ID, node.Type, field, key, name)
	}
}

// renameKeys applies names to the keys of in without ever merging two entries.
// When several keys would land on the same name, the key that already has
// that name wins, otherwise the lexically smallest; the rest keep their own
// name. This repeats until no two keys collide.
func renameKeys[M ~map[string]any](in M, names map[string]string, onCollision func(key, name string)) M {
	if len(in) == 0 || len(names) == 0 {
		return in
	}

	keys := sortedKeys(map[string]any(in))
	proposed := make(map[string]string, len(keys))
	for _, key := range keys {
		if name, ok := names[key]; ok {
			proposed[key] = name
		} else {
			proposed[key] = key
		}
	}

	for {
		owners := make(map[string][]string, len(keys))
		for _, key := range keys {
			name := proposed[key]
			owners[name] = append(owners[name], key)
		}

		changed := false
		for _, name := range sortedKeys(owners) {
			claimants := owners[name]
			if len(claimants) < 2 {
				continue
			}
			winner := claimants[0]
			for _, key := range claimants {
				if key == name {
					winner = key
					break
				}
			}
			for _, key := range claimants {
				if key == winner || proposed[key] == key {
					continue
				}
				proposed[key] = key
				changed = true
				if onCollision != nil {
					onCollision(key, name)
				}
			}
		}
		if !changed {
			break
		}
	}

	out := make(M, len(in))
	for _, key := range keys {
		out[proposed[key]] = in[key]
	}
	return out
}
