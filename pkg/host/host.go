package host

import (
	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// Kind identifies a host implementation.
type Kind uint8

const (
	KindEmpty Kind = iota + 1
	KindPrimitive
	KindStatic
	KindStaticArray
	KindAtom
	KindFunc
	KindList
	KindArray
	KindComponent
)

// String returns the metric label for the kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindPrimitive:
		return "primitive"
	case KindStatic:
		return "static"
	case KindStaticArray:
		return "static_array"
	case KindAtom:
		return "atom"
	case KindFunc:
		return "func"
	case KindList:
		return "list"
	case KindArray:
		return "array"
	case KindComponent:
		return "component"
	default:
		return "unknown"
	}
}

// Host owns the output nodes of one render value.
type Host interface {
	Kind() Kind

	// Element returns the leading node of the host's region, or the
	// placeholder when the region is empty.
	Element() *dom.Node

	// Placeholder returns the end marker the host was created with.
	Placeholder() *dom.Node

	// Render mounts the value. Hosts render once.
	Render()

	// Destroy releases computations and child hosts and, unless
	// parentHandle is set, removes the host's nodes and placeholder.
	// Destroying twice is a no-op.
	Destroy(parentHandle bool)
}

// base carries the state every host kind shares.
type base struct {
	kind        Kind
	ctx         PathContext
	placeholder *dom.Node

	rendered  bool
	destroyed bool
}

func newBase(kind Kind, placeholder *dom.Node, ctx PathContext) base {
	ctx.metrics().hostCreated(kind)
	return base{kind: kind, ctx: ctx, placeholder: placeholder}
}

// Kind implements Host.
func (b *base) Kind() Kind { return b.kind }

// Placeholder implements Host.
func (b *base) Placeholder() *dom.Node { return b.placeholder }

// Context returns the host's path context.
func (b *base) Context() PathContext { return b.ctx }

// Destroyed reports whether Destroy has been called.
func (b *base) Destroyed() bool { return b.destroyed }

func (b *base) beginRender() {
	if b.destroyed {
		panic(errors.New("H009").WithDetailf("Render called on a destroyed %s host.", b.kind))
	}
	if b.rendered {
		panic(errors.New("H002").WithDetailf("A %s host renders exactly once.", b.kind))
	}
	b.rendered = true
}

// beginDestroy reports whether this call should tear the host down.
func (b *base) beginDestroy() bool {
	if b.destroyed {
		return false
	}
	b.destroyed = true
	b.ctx.metrics().hostDestroyed(b.kind)
	return true
}

// insert places n immediately before the placeholder.
func (b *base) insert(n *dom.Node) {
	b.placeholder.Parent().InsertBefore(n, b.placeholder)
}

// removeSpan removes start and its following siblings up to, but not
// including, end.
func removeSpan(start, end *dom.Node) {
	for n := start; n != nil && n != end; {
		next := n.NextSibling()
		n.Remove()
		n = next
	}
}

// spanNodes returns start through end inclusive.
func spanNodes(start, end *dom.Node) []*dom.Node {
	var out []*dom.Node
	for n := start; n != nil; n = n.NextSibling() {
		out = append(out, n)
		if n == end {
			break
		}
	}
	return out
}

// detached runs fn with no current owner, so computations it creates
// belong only to the host that keeps their handles.
func detached(fn func()) {
	reactive.WithOwner(nil, fn)
}

// autorun creates an autorun owned solely by the caller.
func autorun(fn func(*reactive.Run), opts ...reactive.AutorunOption) *reactive.Autorun {
	var a *reactive.Autorun
	detached(func() {
		a = reactive.NewAutorun(fn, opts...)
	})
	return a
}
