package reactive

import (
	"sync"
	"sync/atomic"
)

// Computed is a cached derivation that tracks its own dependencies.
// It is lazy: when a dependency changes it is only invalidated, and the
// computation runs again on the next read.
type Computed[T any] struct {
	base source

	compute func() T

	value   T
	valueMu sync.RWMutex

	valid     atomic.Bool
	computing atomic.Bool
	disposed  atomic.Bool

	sources   []*source
	sourcesMu sync.Mutex

	runs atomic.Int64
}

// NewComputed creates a computed value and registers it with the current owner.
func NewComputed[T any](compute func() T) *Computed[T] {
	c := &Computed[T]{
		base:    source{id: nextID()},
		compute: compute,
	}
	if owner := CurrentOwner(); owner != nil {
		owner.Register(c)
	}
	return c
}

// Get returns the value, recomputing if invalid, and subscribes the current listener.
func (c *Computed[T]) Get() T {
	track(&c.base)
	return c.Peek()
}

// Peek returns the value without subscribing. It still recomputes if needed.
// A disposed computed keeps returning its last value.
func (c *Computed[T]) Peek() T {
	if !c.valid.Load() && !c.disposed.Load() {
		c.recompute()
	}
	c.valueMu.RLock()
	defer c.valueMu.RUnlock()
	return c.value
}

// ReadAny implements Readable.
func (c *Computed[T]) ReadAny() any {
	return c.Get()
}

// MarkDirty invalidates the value and propagates to subscribers.
func (c *Computed[T]) MarkDirty() {
	if c.disposed.Load() {
		return
	}
	if c.valid.CompareAndSwap(true, false) {
		c.base.notify()
	}
}

// ID implements Listener.
func (c *Computed[T]) ID() uint64 {
	return c.base.id
}

// Runs returns how many times the computation has executed.
func (c *Computed[T]) Runs() int {
	return int(c.runs.Load())
}

// Dependents returns how many listeners are subscribed.
func (c *Computed[T]) Dependents() int {
	return c.base.count()
}

// Dispose unsubscribes from every source. The last value stays readable.
func (c *Computed[T]) Dispose() {
	if c.disposed.Swap(true) {
		return
	}
	c.dropSources()
}

func (c *Computed[T]) addSource(s *source) {
	c.sourcesMu.Lock()
	defer c.sourcesMu.Unlock()
	for _, existing := range c.sources {
		if existing == s {
			return
		}
	}
	c.sources = append(c.sources, s)
}

func (c *Computed[T]) dropSources() {
	c.sourcesMu.Lock()
	sources := c.sources
	c.sources = nil
	c.sourcesMu.Unlock()
	for _, s := range sources {
		s.unsubscribe(c)
	}
}

func (c *Computed[T]) recompute() {
	// Circular read: keep the stale value.
	if c.computing.Swap(true) {
		return
	}
	defer c.computing.Store(false)

	c.dropSources()

	var next T
	WithListener(c, func() {
		next = c.compute()
	})
	c.runs.Add(1)

	c.valueMu.Lock()
	c.value = next
	c.valueMu.Unlock()
	c.valid.Store(true)
}
