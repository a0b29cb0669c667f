// Package schema defines the canonical in-memory UI Schema model: a versioned
// document whose root is a tree of UIComponent nodes, plus an optional data
// context and document metadata. Every other package in the module operates on
// these types. Values are treated as immutable by the engine; transforms such
// as binding and platform adaptation return new values built with Clone rather
// than mutating their input.
//
// The JSON wire format mirrors the struct tags. Event actions are a closed sum
// type encoded as an object with a "type" discriminator:
//
//	{"event": "onClick", "action": {"type": "navigate", "url": "/home"}}
package schema
