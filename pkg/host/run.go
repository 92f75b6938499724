package host

import (
	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// slot is one item of a run: its value, its own placeholder and its host.
type slot struct {
	value any
	ph    *dom.Node
	host  Host
}

// run is a contiguous sequence of child hosts ending at the owner's
// placeholder. List and array hosts apply collection patches to it.
type run struct {
	owner Host
	ctx   PathContext
	end   *dom.Node

	// unpack maps a collection item to the value to mount and, when the
	// item brings one, its placeholder.
	unpack func(item any) (any, *dom.Node)

	slots *arraylist.List
}

func newRun(owner Host, ctx PathContext, end *dom.Node, unpack func(any) (any, *dom.Node)) *run {
	if unpack == nil {
		unpack = func(item any) (any, *dom.Node) { return item, nil }
	}
	return &run{
		owner:  owner,
		ctx:    ctx.WithHost(owner),
		end:    end,
		unpack: unpack,
		slots:  arraylist.New(),
	}
}

func (r *run) size() int {
	return r.slots.Size()
}

func (r *run) at(i int) *slot {
	v, _ := r.slots.Get(i)
	return v.(*slot)
}

// first returns the leading node of the run, or the end marker.
func (r *run) first() *dom.Node {
	return r.anchor(0)
}

// anchor returns the node new content for index i is inserted before.
func (r *run) anchor(i int) *dom.Node {
	if i < r.size() {
		return r.at(i).host.Element()
	}
	return r.end
}

// hosts returns the child hosts in order.
func (r *run) hosts() []Host {
	out := make([]Host, r.size())
	for i := range out {
		out[i] = r.at(i).host
	}
	return out
}

// insert mounts items at index i.
func (r *run) insert(i int, items []any) {
	if len(items) == 0 {
		return
	}
	anchor := r.anchor(i)
	parent := r.end.Parent()

	created := make([]any, 0, len(items))
	detached(func() {
		for _, item := range items {
			value, ph := r.unpack(item)
			if ph == nil {
				ph = dom.NewComment("item")
			}
			parent.InsertBefore(ph, anchor)
			s := &slot{value: value, ph: ph}
			s.host = CreateHost(value, ph, r.ctx)
			s.host.Render()
			created = append(created, s)
		}
	})
	r.slots.Insert(i, created...)
}

// remove destroys count hosts starting at i. When they are the whole run
// and the run is the only content of its parent, the parent is cleared in
// one step and the end marker put back.
func (r *run) remove(i, count int, allowClear bool) {
	if count <= 0 {
		return
	}
	if allowClear && i == 0 && count == r.size() && r.soleContent() {
		r.clear()
		return
	}
	for k := 0; k < count; k++ {
		s := r.at(i)
		r.slots.Remove(i)
		s.host.Destroy(false)
	}
}

func (r *run) soleContent() bool {
	parent := r.end.Parent()
	return parent != nil && parent.FirstChild() == r.first() && parent.LastChild() == r.end
}

func (r *run) clear() {
	for _, h := range r.hosts() {
		h.Destroy(true)
	}
	r.slots.Clear()

	parent := r.end.Parent()
	parent.ReplaceChildren()
	parent.AppendChild(r.end)

	r.ctx.metrics().bulkClear()
	r.ctx.logger().Debug("run cleared", "kind", r.owner.Kind().String())
}

// replace swaps the host at i for one mounting item.
func (r *run) replace(i int, item any) {
	r.remove(i, 1, false)
	r.insert(i, []any{item})
}

// move relocates the host at from to index to without rebuilding it.
func (r *run) move(from, to int) {
	if from == to {
		return
	}
	s := r.at(from)
	r.slots.Remove(from)

	ph := dom.NewComment("move")
	r.end.Parent().InsertBefore(ph, r.anchor(to))
	s.host = CreateHost(Reuse(s.host), ph, r.ctx)
	r.slots.Insert(to, s)
}

// apply translates one collection patch.
func (r *run) apply(p reactive.Patch) {
	r.ctx.metrics().patchApplied(p.Op)

	switch p.Op {
	case reactive.OpPush, reactive.OpUnshift:
		r.insert(p.Index, p.Items)
	case reactive.OpPop, reactive.OpShift:
		r.remove(p.Index, 1, true)
	case reactive.OpSplice, reactive.OpReplace:
		r.remove(p.Index, p.Count, true)
		r.insert(p.Index, p.Items)
	case reactive.OpSet:
		r.replace(p.Index, p.Items[0])
	case reactive.OpMove:
		r.move(p.Index, p.To)
	default:
		panic(unsupported(p))
	}
}

// destroy tears down every child host. Unless the parent handles removal,
// the run's nodes are removed too; the end marker is left to the owner.
func (r *run) destroy(parentHandle bool) {
	start := r.first()
	for _, h := range r.hosts() {
		h.Destroy(true)
	}
	r.slots.Clear()
	if !parentHandle {
		removeSpan(start, r.end)
	}
}

func unsupported(p reactive.Patch) *errors.Error {
	return errors.New("H003").
		WithValue(p.Op.String()).
		WithDetailf("Keyed %s at index %d.", p.Op, p.Index).
		WithSuggestion("Change reactive arrays through Splice, Push, Pop, Shift, Unshift or Set.")
}
