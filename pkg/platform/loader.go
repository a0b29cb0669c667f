package platform

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table holds the default mapping of one platform plus its per-component
// overrides.
type Table struct {
	Platform   string             `yaml:"platform"`
	Default    Mapping            `yaml:"default"`
	Components map[string]Mapping `yaml:"components"`
}

// Tables indexes mapping tables by platform. A Tables value is read-only once
// loaded.
type Tables struct {
	platforms map[string]Table
}

// NewTables builds a Tables value from explicit tables. Duplicate or empty
// platform names are rejected.
func NewTables(tables ...Table) (*Tables, error) {
	out := &Tables{platforms: make(map[string]Table, len(tables))}
	for _, table := range tables {
		if err := out.add(table, "<memory>"); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// LoadFS walks fsys and parses every YAML (or JSON) mapping file. Each file
// describes one platform. When fsys is nil the returned tables are empty.
func LoadFS(fsys fs.FS) (*Tables, error) {
	tables := &Tables{platforms: make(map[string]Table)}
	if fsys == nil {
		return tables, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isTableFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("platform: read %s: %w", path, err)
		}
		table, err := parseTable(data, path)
		if err != nil {
			return err
		}
		return tables.add(table, path)
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

func parseTable(data []byte, source string) (Table, error) {
	if strings.TrimSpace(string(data)) == "" {
		return Table{}, fmt.Errorf("platform: file %s is empty", source)
	}
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return Table{}, fmt.Errorf("platform: parse %s: %w", source, err)
	}
	if table.Platform == "" {
		// Fall back to the file name so "mobile-web.yaml" needs no header.
		table.Platform = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}
	return table, nil
}

func (t *Tables) add(table Table, source string) error {
	name := strings.TrimSpace(table.Platform)
	if name == "" {
		return fmt.Errorf("platform: table in %s has an empty platform name", source)
	}
	if _, exists := t.platforms[name]; exists {
		return fmt.Errorf("platform: duplicate table for platform %q (file %s)", name, source)
	}

	normalised := Table{
		Platform:   name,
		Default:    table.Default.Clone(),
		Components: make(map[string]Mapping, len(table.Components)),
	}
	for componentType, mapping := range table.Components {
		key := strings.TrimSpace(componentType)
		if key == "" {
			return fmt.Errorf("platform: platform %q (file %s) defines an empty component type", name, source)
		}
		normalised.Components[key] = mapping.Clone()
	}
	t.platforms[name] = normalised
	return nil
}

// Has reports whether a table exists for platform.
func (t *Tables) Has(platform string) bool {
	if t == nil {
		return false
	}
	_, ok := t.platforms[platform]
	return ok
}

// Platforms lists the known platform names in sorted order.
func (t *Tables) Platforms() []string {
	if t == nil {
		return nil
	}
	return sortedKeys(t.platforms)
}

// Mapping returns the platform default merged with the override for
// componentType. ok is false when the platform is unknown.
func (t *Tables) Mapping(componentType, platform string) (Mapping, bool) {
	if t == nil {
		return Mapping{}, false
	}
	table, ok := t.platforms[platform]
	if !ok {
		return Mapping{}, false
	}
	merged := table.Default.Clone()
	if override, ok := table.Components[componentType]; ok {
		merged = merged.Merge(override)
	}
	return merged, true
}

func isTableFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
