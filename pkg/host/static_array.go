package host

import (
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/el"
)

// StaticArrayHost mounts a plain slice once, in order.
type StaticArrayHost struct {
	base
	items []any

	entries []arrayEntry
}

// arrayEntry is either a node inserted directly or a nested host.
type arrayEntry struct {
	node *dom.Node
	host Host
}

func (e arrayEntry) element() *dom.Node {
	if e.host != nil {
		return e.host.Element()
	}
	return e.node
}

func newStaticArrayHost(items []any, placeholder *dom.Node, ctx PathContext) *StaticArrayHost {
	return &StaticArrayHost{base: newBase(KindStaticArray, placeholder, ctx), items: items}
}

// Element implements Host.
func (h *StaticArrayHost) Element() *dom.Node {
	if len(h.entries) == 0 {
		return h.placeholder
	}
	return h.entries[0].element()
}

// Render implements Host.
func (h *StaticArrayHost) Render() {
	h.beginRender()
	childCtx := h.ctx.WithHost(h)

	for i, item := range h.items {
		if text, ok := el.Primitive(item); ok {
			n := dom.NewText(text)
			h.insert(n)
			h.entries = append(h.entries, arrayEntry{node: n})
			continue
		}
		if n, ok := item.(*dom.Node); ok && n.Kind() != dom.KindFragment {
			h.insert(n)
			h.entries = append(h.entries, arrayEntry{node: n})
			continue
		}

		ph := dom.NewComment("slot")
		h.insert(ph)
		c := CreateHost(item, ph, childCtx.WithIndex(i))
		h.entries = append(h.entries, arrayEntry{host: c})
		c.Render()
	}
}

// Destroy implements Host.
func (h *StaticArrayHost) Destroy(parentHandle bool) {
	if !h.beginDestroy() {
		return
	}
	start := h.Element()
	for _, e := range h.entries {
		if e.host != nil {
			e.host.Destroy(true)
		}
	}
	if !parentHandle {
		removeSpan(start, h.placeholder)
		h.placeholder.Remove()
	}
	h.entries = nil
}
