// Package components holds the catalogue of component types a renderer
// supports, including the platforms each type is restricted to.
package components
