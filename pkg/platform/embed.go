package platform

import (
	"embed"
	"io/fs"
	"sync"
)

//go:embed mappings/*.yaml
var embeddedMappings embed.FS

var (
	defaultTablesOnce sync.Once
	defaultTables     *Tables
)

// EmbeddedFS returns the bundled mapping tables. Callers may pass this
// filesystem to LoadFS to start from the default configuration.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedMappings, "mappings")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// DefaultTables returns the bundled tables, parsed once per process. The
// returned value is shared and must not be modified.
func DefaultTables() *Tables {
	defaultTablesOnce.Do(func() {
		tables, err := LoadFS(EmbeddedFS())
		if err != nil {
			panic(err)
		}
		defaultTables = tables
	})
	return defaultTables
}
