// Package condition evaluates component conditions against a data context.
//
// A condition is a small boolean expression over binding paths. Paths may be
// written bare or wrapped in {{ }}; both resolve through the binding package,
// so a missing key reads as null instead of failing:
//
//	{{flags.showOrders}}
//	{{user.role}} == "admin" && !user.locked
//
// Prune applies every condition that can be decided up front and removes the
// components whose condition is false. Conditions inside a loop that read the
// loop's item or index name are left for the renderer.
package condition
