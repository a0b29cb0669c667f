// Package binding implements the data-binding expression language used by UI
// schemas.
//
// A binding expression is a path wrapped in double braces:
//
//	{{user.addresses[0].city}}
//
// The path grammar is
//
//	path    := ident ( '.' ident | '[' digits ']' )*
//	ident   := ( letter | digit | '_' | '$' | '-' )+
//
// ParsePath turns a bare path into typed segments, ParseBindingExpression
// additionally requires the whole input to be a single {{...}} placeholder,
// and Placeholders scans free text for every embedded occurrence. All three
// share the same path parser so single-expression parsing and template
// scanning cannot disagree.
//
// ResolvePath walks parsed segments against a data context. Missing keys are
// not errors: they resolve to an undefined Result, which only fails if a later
// segment tries to descend through it. ResolveBindings substitutes every
// placeholder in a template and leaves a placeholder untouched when it cannot
// be parsed or resolved, so one broken binding never corrupts the rest of the
// text.
//
// ExtractDataFields lists every binding occurrence in a component tree with
// the component id and the property it was found in.
package binding
