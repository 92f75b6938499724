package reactive

import (
	"sync"
	"sync/atomic"

	"github.com/vango-dev/livetree/internal/errors"
)

// Patcher is a computation with manually declared dependencies that is
// initialized once and afterwards only advanced by patches. It never
// recomputes from scratch: a notification that does not carry a patch
// after the first run is an invariant violation.
type Patcher struct {
	id uint64

	apply func(Patch)

	stop func()

	sources   []*source
	sourcesMu sync.Mutex

	patches  atomic.Int64
	disposed atomic.Bool
}

// NewPatcher observes c. init receives the current items once; apply
// receives every later patch in order. The patcher registers with the
// current owner.
func NewPatcher(c Collection, init func(items []any), apply func(Patch)) *Patcher {
	p := &Patcher{
		id:    nextID(),
		apply: apply,
	}
	if owner := CurrentOwner(); owner != nil {
		owner.Register(p)
	}

	Untracked(func() {
		init(c.Snapshot())
	})
	p.stop = c.ObservePatches(p.receive)
	return p
}

// DependOn declares an additional, non-patch dependency. Any change to it
// is reported as a recomputation request.
func (p *Patcher) DependOn(r Readable) {
	WithListener(p, func() {
		r.ReadAny()
	})
}

// ID implements Listener.
func (p *Patcher) ID() uint64 {
	return p.id
}

// Patches returns how many patches have been applied.
func (p *Patcher) Patches() int {
	return int(p.patches.Load())
}

// MarkDirty implements Listener. A patcher only moves forward through
// patches, so being asked to recompute is fatal.
func (p *Patcher) MarkDirty() {
	if p.disposed.Load() {
		return
	}
	panic(errors.New("H007").WithDetail("A patch-driven collection binding received a change without a patch."))
}

// Dispose stops observing patches and declared dependencies.
func (p *Patcher) Dispose() {
	if p.disposed.Swap(true) {
		return
	}
	if p.stop != nil {
		p.stop()
	}
	p.sourcesMu.Lock()
	sources := p.sources
	p.sources = nil
	p.sourcesMu.Unlock()
	for _, s := range sources {
		s.unsubscribe(p)
	}
}

func (p *Patcher) addSource(s *source) {
	p.sourcesMu.Lock()
	defer p.sourcesMu.Unlock()
	for _, existing := range p.sources {
		if existing == s {
			return
		}
	}
	p.sources = append(p.sources, s)
}

func (p *Patcher) receive(patch Patch) {
	if p.disposed.Load() {
		return
	}
	p.patches.Add(1)
	Untracked(func() {
		p.apply(patch)
	})
}
