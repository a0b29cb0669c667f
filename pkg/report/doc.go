// Package report renders human-readable summaries of UI schemas, such as the
// table of data bindings a schema reads, from pongo2 templates.
package report
