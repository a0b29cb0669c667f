// Package validation checks that an untyped JSON value has the UI Schema
// shape. Check walks the value once, building the typed schema.UISchema while
// it collects every problem it finds; nothing short-circuits, so a single pass
// reports all errors. Each error carries a dotted/bracketed path and a closed
// Code.
//
// StrictValidator is an optional second gate that validates the same value
// against the bundled JSON Schema document of the wire format.
package validation
