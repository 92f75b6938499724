package host

import "github.com/vango-dev/livetree/pkg/dom"

// EmptyHost renders nothing. Its placeholder is its whole region.
type EmptyHost struct {
	base
}

func newEmptyHost(placeholder *dom.Node, ctx PathContext) *EmptyHost {
	return &EmptyHost{base: newBase(KindEmpty, placeholder, ctx)}
}

// Element implements Host.
func (h *EmptyHost) Element() *dom.Node { return h.placeholder }

// Render implements Host.
func (h *EmptyHost) Render() { h.beginRender() }

// Destroy implements Host.
func (h *EmptyHost) Destroy(parentHandle bool) {
	if !h.beginDestroy() {
		return
	}
	if !parentHandle {
		h.placeholder.Remove()
	}
}

// PrimitiveHost renders a string, number or boolean as one text node.
type PrimitiveHost struct {
	base
	text string
	node *dom.Node
}

func newPrimitiveHost(text string, placeholder *dom.Node, ctx PathContext) *PrimitiveHost {
	return &PrimitiveHost{base: newBase(KindPrimitive, placeholder, ctx), text: text}
}

// Element implements Host.
func (h *PrimitiveHost) Element() *dom.Node {
	if h.node == nil {
		return h.placeholder
	}
	return h.node
}

// Render implements Host.
func (h *PrimitiveHost) Render() {
	h.beginRender()
	h.node = dom.NewText(h.text)
	h.insert(h.node)
}

// Destroy implements Host.
func (h *PrimitiveHost) Destroy(parentHandle bool) {
	if !h.beginDestroy() {
		return
	}
	if !parentHandle {
		if h.node != nil {
			h.node.Remove()
		}
		h.placeholder.Remove()
	}
}
