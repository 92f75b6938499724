package host

import (
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// pair ties an array item to the placeholder its host will use.
type pair struct {
	item any
	ph   *dom.Node
}

func newPairs(items []any) []*pair {
	out := make([]*pair, len(items))
	for i, item := range items {
		out[i] = &pair{item: item, ph: dom.NewComment("item")}
	}
	return out
}

func unpackPair(v any) (any, *dom.Node) {
	p := v.(*pair)
	return p.item, p.ph
}

// ArrayHost mirrors a reactive array in two layers. The pairing layer
// keeps a list of (item, placeholder) pairs in step with the array; the
// hosting layer keeps child hosts in step with that list. Both layers only
// ever advance by patches.
type ArrayHost struct {
	base
	source reactive.Collection

	pairs   *reactive.List[*pair]
	pairing *reactive.Patcher
	hosting *reactive.Patcher
	run     *run
}

func newArrayHost(source reactive.Collection, placeholder *dom.Node, ctx PathContext) *ArrayHost {
	return &ArrayHost{base: newBase(KindArray, placeholder, ctx), source: source}
}

// Element implements Host.
func (h *ArrayHost) Element() *dom.Node {
	if h.run == nil {
		return h.placeholder
	}
	return h.run.first()
}

// Children returns the item hosts in order.
func (h *ArrayHost) Children() []Host {
	if h.run == nil {
		return nil
	}
	return h.run.hosts()
}

// Render implements Host.
func (h *ArrayHost) Render() {
	h.beginRender()
	h.pairs = reactive.NewList[*pair]()
	h.run = newRun(h, h.ctx, h.placeholder, unpackPair)

	detached(func() {
		h.pairing = reactive.NewPatcher(h.source,
			func(items []any) { h.pairs.Push(newPairs(items)...) },
			h.pair,
		)
		h.hosting = reactive.NewPatcher(h.pairs,
			func(items []any) { h.run.insert(0, items) },
			h.run.apply,
		)
	})
}

// pair applies a source patch to the pairing layer.
func (h *ArrayHost) pair(p reactive.Patch) {
	switch p.Op {
	case reactive.OpPush:
		h.pairs.Push(newPairs(p.Items)...)
	case reactive.OpUnshift:
		h.pairs.Unshift(newPairs(p.Items)...)
	case reactive.OpPop:
		h.pairs.Pop()
	case reactive.OpShift:
		h.pairs.Shift()
	case reactive.OpSplice:
		h.pairs.Splice(p.Index, p.Count, newPairs(p.Items)...)
	case reactive.OpSet:
		h.pairs.Set(p.Index, newPairs(p.Items)[0])
	case reactive.OpMove:
		h.pairs.Move(p.Index, p.To)
	case reactive.OpReplace:
		h.pairs.Replace(newPairs(p.Items))
	default:
		panic(unsupported(p))
	}
}

// Destroy implements Host.
func (h *ArrayHost) Destroy(parentHandle bool) {
	if !h.beginDestroy() {
		return
	}
	if h.pairing != nil {
		h.pairing.Dispose()
	}
	if h.hosting != nil {
		h.hosting.Dispose()
	}
	if h.run != nil {
		h.run.destroy(parentHandle)
	}
	if !parentHandle {
		h.placeholder.Remove()
	}
}
