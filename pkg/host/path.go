package host

import (
	"strconv"
	"strings"
)

// PathNode is an immutable cons cell. A nil *PathNode is the empty path.
type PathNode[T any] struct {
	value  T
	parent *PathNode[T]
	length int
}

// Push returns a new path with v appended. p is not modified.
func (p *PathNode[T]) Push(v T) *PathNode[T] {
	return &PathNode[T]{value: v, parent: p, length: p.Len() + 1}
}

// Value returns the last element.
func (p *PathNode[T]) Value() T {
	return p.value
}

// Parent returns the path without its last element.
func (p *PathNode[T]) Parent() *PathNode[T] {
	if p == nil {
		return nil
	}
	return p.parent
}

// Len returns the number of elements.
func (p *PathNode[T]) Len() int {
	if p == nil {
		return 0
	}
	return p.length
}

// Slice returns the elements from first to last.
func (p *PathNode[T]) Slice() []T {
	out := make([]T, p.Len())
	for cur, i := p, p.Len()-1; cur != nil; cur, i = cur.parent, i-1 {
		out[i] = cur.value
	}
	return out
}

// PathContext is shared by a host and its descendants. It is passed by
// value; the With methods return extended copies.
type PathContext struct {
	Root *Root

	// HostPath is the chain of ancestor hosts, nearest last.
	HostPath *PathNode[Host]

	// ElementPath is the structural index chain from the root.
	ElementPath *PathNode[int]
}

// WithHost returns a context with h appended to the host path.
func (c PathContext) WithHost(h Host) PathContext {
	c.HostPath = c.HostPath.Push(h)
	return c
}

// WithIndex returns a context with the indexes appended to the element path.
func (c PathContext) WithIndex(indexes ...int) PathContext {
	for _, i := range indexes {
		c.ElementPath = c.ElementPath.Push(i)
	}
	return c
}

// Unstable reports whether an ancestor creates its children dynamically,
// so that the same structural position can hold several instances at once.
// A function host holds one child at a time and keeps its position.
func (c PathContext) Unstable() bool {
	for p := c.HostPath; p != nil; p = p.Parent() {
		switch p.Value().Kind() {
		case KindList, KindArray:
			return true
		}
	}
	return false
}

// Key describes the structural position: component types along the host
// path and the element path.
func (c PathContext) Key() string {
	var b strings.Builder
	for _, h := range c.HostPath.Slice() {
		if ch, ok := h.(*ComponentHost); ok {
			b.WriteByte('c')
			b.WriteString(strconv.Itoa(ch.typeID))
			b.WriteByte('/')
		}
	}
	for i, idx := range c.ElementPath.Slice() {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(idx))
	}
	return b.String()
}
