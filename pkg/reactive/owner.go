package reactive

import (
	"sync"
	"sync/atomic"
)

// Owner is a disposal scope. Computations created while an owner is
// current register with it, and disposing the owner disposes them, its
// child owners, and runs its cleanups.
type Owner struct {
	id uint64

	parent *Owner

	children   []*Owner
	childrenMu sync.Mutex

	disposers   []Disposer
	disposersMu sync.Mutex

	cleanups   []func()
	cleanupsMu sync.Mutex

	values   map[any]any
	valuesMu sync.RWMutex
	inherit  *Owner

	disposed atomic.Bool
}

// NewOwner creates an owner. A non-nil parent disposes it with itself.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}
	if parent != nil {
		parent.addChild(o)
	}
	return o
}

// ID returns the unique identifier for this owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent owner, or nil for a root owner.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed reports whether Dispose has been called.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

func (o *Owner) addChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

// Register adds d to the owner. Registering on a disposed owner disposes d
// immediately.
func (o *Owner) Register(d Disposer) {
	if o.disposed.Load() {
		d.Dispose()
		return
	}
	o.disposersMu.Lock()
	defer o.disposersMu.Unlock()
	o.disposers = append(o.disposers, d)
}

// Len returns the number of registered disposers.
func (o *Owner) Len() int {
	o.disposersMu.Lock()
	defer o.disposersMu.Unlock()
	return len(o.disposers)
}

// OnCleanup registers fn to run on Dispose. On a disposed owner fn runs now.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed.Load() {
		fn()
		return
	}
	o.cleanupsMu.Lock()
	defer o.cleanupsMu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

// Provide stores a contextual value visible to this owner and its descendants.
func (o *Owner) Provide(key, value any) {
	o.valuesMu.Lock()
	defer o.valuesMu.Unlock()
	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
}

// Inherit makes Lookup continue at from instead of the parent. It does not
// tie o's lifetime to from.
func (o *Owner) Inherit(from *Owner) {
	o.valuesMu.Lock()
	defer o.valuesMu.Unlock()
	o.inherit = from
}

// Lookup finds the nearest value for key, walking up through inherited
// owners or parents.
func (o *Owner) Lookup(key any) (any, bool) {
	for cur := o; cur != nil; {
		cur.valuesMu.RLock()
		v, ok := cur.values[key]
		next := cur.inherit
		cur.valuesMu.RUnlock()
		if ok {
			return v, true
		}
		if next == nil {
			next = cur.parent
		}
		cur = next
	}
	return nil, false
}

// Dispose disposes children (last created first), registered disposers
// and cleanups, in reverse registration order.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.childrenMu.Lock()
	children := o.children
	o.children = nil
	o.childrenMu.Unlock()
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	o.disposersMu.Lock()
	disposers := o.disposers
	o.disposers = nil
	o.disposersMu.Unlock()
	for i := len(disposers) - 1; i >= 0; i-- {
		disposers[i].Dispose()
	}

	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
