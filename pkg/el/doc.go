// Package el builds declarative node descriptions and turns them into
// output trees.
//
// E describes an element, a fragment or a component call:
//
//	el.E("ul", el.Class("items"),
//	    el.E("li", "static"),
//	    count, // a reactive value, mounted later by a host
//	)
//
// Build materializes everything it can evaluate on its own. Values it
// cannot evaluate (reactive values, functions, collections, slices and
// component calls) are left as comment placeholders and reported in the
// returned Built, together with dynamic attributes and ref handlers, so
// that the host layer can mount them.
package el
