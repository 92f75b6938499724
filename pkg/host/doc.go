// Package host mounts render values into an output tree and keeps them up
// to date as reactive state changes.
//
// A Host owns one region of output nodes. Each host is positioned by a
// placeholder comment: its content is always inserted immediately before
// the placeholder, which stays in place as the region's end marker until
// the host is destroyed. CreateHost classifies a render value and returns
// the matching host:
//
//	*el.Built, *dom.Node, element *el.Node   StaticHost
//	string, number, bool                     PrimitiveHost
//	*reactive.Array, plain slices            ArrayHost, StaticArrayHost
//	nil, el.Undefined                        EmptyHost
//	*reactive.List                           ListHost
//	*Reusable                                the reused host, relocated
//	component *el.Node                       ComponentHost
//	reactive.Readable                        AtomHost
//	func() T, func(*reactive.Run) T          FuncHost
//
// Only FuncHost re-evaluates anything wholesale. Collections are patched
// incrementally, atoms rewrite one text node, and static trees never
// rebuild.
//
// Each host owns the computations it creates and is the only one that
// disposes them. Destroy(true) tells a host that its parent removes the
// output nodes in bulk, so only computations and child hosts are torn
// down.
//
// Invariant violations panic with *errors.Error at the point of violation.
// Root.Render, Root.Destroy and Root.Flush recover them and return them as
// errors.
package host
