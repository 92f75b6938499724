package host

import (
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// ListHost mirrors a reactive list, one child host per item, applying
// each patch in place.
type ListHost struct {
	base
	source reactive.Collection

	run     *run
	patcher *reactive.Patcher
}

func newListHost(source reactive.Collection, placeholder *dom.Node, ctx PathContext) *ListHost {
	return &ListHost{base: newBase(KindList, placeholder, ctx), source: source}
}

// Element implements Host.
func (h *ListHost) Element() *dom.Node {
	if h.run == nil {
		return h.placeholder
	}
	return h.run.first()
}

// Children returns the item hosts in order.
func (h *ListHost) Children() []Host {
	if h.run == nil {
		return nil
	}
	return h.run.hosts()
}

// Render implements Host.
func (h *ListHost) Render() {
	h.beginRender()
	h.run = newRun(h, h.ctx, h.placeholder, nil)
	detached(func() {
		h.patcher = reactive.NewPatcher(h.source,
			func(items []any) { h.run.insert(0, items) },
			h.run.apply,
		)
	})
}

// Destroy implements Host.
func (h *ListHost) Destroy(parentHandle bool) {
	if !h.beginDestroy() {
		return
	}
	if h.patcher != nil {
		h.patcher.Dispose()
	}
	if h.run != nil {
		h.run.destroy(parentHandle)
	}
	if !parentHandle {
		h.placeholder.Remove()
	}
}
