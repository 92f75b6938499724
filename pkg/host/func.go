package host

import (
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// FuncHost re-evaluates a function whenever what it read changes and
// rebuilds its whole child from the result. Re-runs are coalesced until
// the next microtask flush.
type FuncHost struct {
	base
	fn func(*reactive.Run) any

	run   *reactive.Autorun
	child Host

	// parentHandled is passed on to the child when the run is torn down.
	parentHandled bool
}

func newFuncHost(fn func(*reactive.Run) any, placeholder *dom.Node, ctx PathContext) *FuncHost {
	return &FuncHost{base: newBase(KindFunc, placeholder, ctx), fn: fn}
}

// Element implements Host.
func (h *FuncHost) Element() *dom.Node {
	if h.child == nil {
		return h.placeholder
	}
	return h.child.Element()
}

// Child returns the host built by the latest run.
func (h *FuncHost) Child() Host {
	return h.child
}

// Runs returns how many times the function has been evaluated.
func (h *FuncHost) Runs() int {
	if h.run == nil {
		return 0
	}
	return h.run.Runs()
}

// Render implements Host.
func (h *FuncHost) Render() {
	h.beginRender()
	metrics := h.ctx.metrics()

	h.run = autorun(func(r *reactive.Run) {
		if r.Number() > 1 {
			metrics.funcRerun()
			span := h.ctx.startSpan("livetree.func.rerun", h.kind)
			defer span.End()
		}
		value := h.fn(r)

		// Nothing the child reads while mounting belongs to this run.
		var child Host
		r.Untracked(func() {
			ph := dom.NewComment("func")
			h.insert(ph)
			child = CreateHost(value, ph, h.ctx.WithHost(h))
			h.child = child
			child.Render()
		})

		r.OnCleanup(func() {
			if h.child == child {
				h.child = nil
			}
			child.Destroy(h.parentHandled)
		})
	}, reactive.WithScheduler(reactive.Coalesced()))
}

// Destroy implements Host. A re-run still queued becomes a no-op.
func (h *FuncHost) Destroy(parentHandle bool) {
	if !h.beginDestroy() {
		return
	}
	h.parentHandled = parentHandle
	if h.run != nil {
		h.run.Dispose()
	}
	if !parentHandle {
		h.placeholder.Remove()
	}
}
