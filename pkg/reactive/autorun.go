package reactive

import (
	"sync"
	"sync/atomic"
)

// Autorun runs a function immediately and again whenever anything it read
// changes. Each run gets a *Run used to register cleanups and to suspend
// dependency collection.
//
// Computations created during a run belong to that run and are disposed
// before the next run and when the autorun is disposed.
type Autorun struct {
	id uint64

	fn func(*Run)

	// schedule defers re-runs. nil re-runs synchronously on notification.
	schedule func(run func())

	current *Run
	scope   *Owner

	sources   []*source
	sourcesMu sync.Mutex

	disposed atomic.Bool
	running  bool
	runs     int
}

// AutorunOption configures an Autorun.
type AutorunOption func(*Autorun)

// WithScheduler makes re-runs go through schedule instead of running
// synchronously. The first run is always synchronous.
func WithScheduler(schedule func(run func())) AutorunOption {
	return func(a *Autorun) {
		a.schedule = schedule
	}
}

// Run is the handle passed to each execution of an Autorun.
type Run struct {
	autorun  *Autorun
	cleanups []func()

	paused int
	saved  Listener
}

// OnCleanup registers fn to run before the next run or on dispose.
// Cleanups run in reverse registration order.
func (r *Run) OnCleanup(fn func()) {
	r.cleanups = append(r.cleanups, fn)
}

// Pause suspends dependency collection until the matching Resume.
func (r *Run) Pause() {
	if r.paused == 0 {
		r.saved = setCurrentListener(nil)
	}
	r.paused++
}

// Resume re-enables dependency collection.
func (r *Run) Resume() {
	if r.paused == 0 {
		return
	}
	r.paused--
	if r.paused == 0 {
		setCurrentListener(r.saved)
		r.saved = nil
	}
}

// Untracked runs fn with dependency collection paused.
func (r *Run) Untracked(fn func()) {
	r.Pause()
	defer r.Resume()
	fn()
}

// Number returns the 1-based index of this run.
func (r *Run) Number() int {
	return r.autorun.runs
}

// NewAutorun creates an autorun, registers it with the current owner and
// executes it once.
func NewAutorun(fn func(*Run), opts ...AutorunOption) *Autorun {
	a := &Autorun{
		id: nextID(),
		fn: fn,
	}
	for _, opt := range opts {
		opt(a)
	}
	if owner := CurrentOwner(); owner != nil {
		owner.Register(a)
	}
	a.execute()
	return a
}

// ID implements Listener.
func (a *Autorun) ID() uint64 {
	return a.id
}

// Runs returns how many times the function has executed.
func (a *Autorun) Runs() int {
	return a.runs
}

// Disposed reports whether the autorun has been stopped.
func (a *Autorun) Disposed() bool {
	return a.disposed.Load()
}

// MarkDirty schedules a re-run.
func (a *Autorun) MarkDirty() {
	if a.disposed.Load() {
		return
	}
	if a.schedule != nil {
		a.schedule(a.execute)
		return
	}
	a.execute()
}

// Dispose stops the autorun, running pending cleanups and releasing
// everything created during the last run.
func (a *Autorun) Dispose() {
	if a.disposed.Swap(true) {
		return
	}
	a.teardown()
}

func (a *Autorun) addSource(s *source) {
	a.sourcesMu.Lock()
	defer a.sourcesMu.Unlock()
	for _, existing := range a.sources {
		if existing == s {
			return
		}
	}
	a.sources = append(a.sources, s)
}

// teardown ends the current run: cleanups, owned computations, subscriptions.
func (a *Autorun) teardown() {
	if r := a.current; r != nil {
		a.current = nil
		for i := len(r.cleanups) - 1; i >= 0; i-- {
			r.cleanups[i]()
		}
	}
	if a.scope != nil {
		a.scope.Dispose()
		a.scope = nil
	}

	a.sourcesMu.Lock()
	sources := a.sources
	a.sources = nil
	a.sourcesMu.Unlock()
	for _, s := range sources {
		s.unsubscribe(a)
	}
}

func (a *Autorun) execute() {
	if a.disposed.Load() || a.running {
		return
	}
	a.running = true
	defer func() { a.running = false }()

	a.teardown()

	r := &Run{autorun: a}
	a.current = r
	a.scope = NewOwner(nil)
	a.runs++

	oldListener := setCurrentListener(a)
	oldOwner := setCurrentOwner(a.scope)
	defer func() {
		setCurrentOwner(oldOwner)
		setCurrentListener(oldListener)
	}()

	a.fn(r)
}
