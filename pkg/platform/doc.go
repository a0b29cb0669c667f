// Package platform rewrites UI schemas for a target runtime.
//
// Only names change: prop keys, style keys and event names are looked up in a
// mapping table and renamed, while values, ids, types, text and tree shape are
// copied as-is. Mappings are layered per platform:
//
//  1. the platform default,
//  2. an override for the component type,
//  3. overrides registered on an Adapter at runtime.
//
// Later layers win key by key. The default and per-type tables ship as YAML
// files embedded in the package; LoadFS reads the same format from any fs.FS.
package platform
