// Package style turns style objects with nested or pseudo selectors into
// scoped stylesheet rules.
//
// A style object is a map of property to value. Flat properties become the
// element's inline style. Keys starting with ':' or '&', and keys whose
// value is itself a map, become rules scoped to a generated class:
//
//	{"color": "red", ":hover": {"color": "blue"}}
//
// applied with id "k3" and prefix "lt-" yields style="color: red", class
// "lt-k3" and the rule ".lt-k3:hover{color: blue}".
//
// Rules live in a Sheet. The package-level Global sheet is process-wide
// and append-only: rules are keyed by structural position, so its size is
// bounded by the program, not by how many nodes are mounted.
package style
