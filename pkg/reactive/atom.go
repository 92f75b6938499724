package reactive

import (
	"reflect"
	"sync"
)

// Atom is a single mutable reactive value.
// Reading it while a listener is current subscribes that listener.
type Atom[T any] struct {
	base source

	value T
	mu    sync.RWMutex

	// equal decides whether a Set changed the value. nil uses defaultEquals.
	equal func(T, T) bool
}

// NewAtom creates an atom holding initial.
func NewAtom[T any](initial T) *Atom[T] {
	return &Atom[T]{
		base:  source{id: nextID()},
		value: initial,
	}
}

// Get returns the current value and subscribes the current listener.
func (a *Atom[T]) Get() T {
	a.mu.RLock()
	value := a.value
	a.mu.RUnlock()

	// Track after releasing the value lock.
	track(&a.base)
	return value
}

// Peek returns the current value without subscribing.
func (a *Atom[T]) Peek() T {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.value
}

// ReadAny implements Readable.
func (a *Atom[T]) ReadAny() any {
	return a.Get()
}

// Set updates the value and notifies subscribers if it changed.
func (a *Atom[T]) Set(value T) {
	a.mu.Lock()
	changed := !a.equals(a.value, value)
	if changed {
		a.value = value
	}
	a.mu.Unlock()

	if changed {
		a.base.notify()
	}
}

// Update replaces the value with fn(current).
func (a *Atom[T]) Update(fn func(T) T) {
	a.mu.Lock()
	old := a.value
	next := fn(old)
	changed := !a.equals(old, next)
	if changed {
		a.value = next
	}
	a.mu.Unlock()

	if changed {
		a.base.notify()
	}
}

// WithEquals configures a custom equality function.
func (a *Atom[T]) WithEquals(fn func(T, T) bool) *Atom[T] {
	a.equal = fn
	return a
}

// ID returns the unique identifier for this atom.
func (a *Atom[T]) ID() uint64 {
	return a.base.id
}

// Dependents returns how many listeners are subscribed.
func (a *Atom[T]) Dependents() int {
	return a.base.count()
}

func (a *Atom[T]) equals(x, y T) bool {
	if a.equal != nil {
		return a.equal(x, y)
	}
	return defaultEquals(x, y)
}

// defaultEquals uses == for comparable dynamic types and reflect.DeepEqual
// otherwise. Values of different dynamic types are never equal, which
// matters for Atom[any].
func defaultEquals[T any](a, b T) bool {
	av, bv := any(a), any(b)
	if av == nil || bv == nil {
		return av == nil && bv == nil
	}
	ta := reflect.TypeOf(av)
	if ta != reflect.TypeOf(bv) {
		return false
	}
	switch ta.Kind() {
	case reflect.Func:
		// Function values are never considered unchanged.
		return false
	case reflect.Slice, reflect.Map:
		return reflect.DeepEqual(av, bv)
	}
	if ta.Comparable() {
		return av == bv
	}
	return reflect.DeepEqual(av, bv)
}
