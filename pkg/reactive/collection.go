package reactive

import "sync"

// CollectionKind distinguishes the two collection flavours hosts bind to.
type CollectionKind uint8

const (
	KindList CollectionKind = iota + 1
	KindArray
)

// Collection is the type-erased view of a reactive list or array.
type Collection interface {
	// Kind reports which flavour the collection is.
	Kind() CollectionKind

	// Snapshot returns the items without tracking.
	Snapshot() []any

	// ObservePatches registers fn to receive every patch in order.
	// The returned function stops the observation.
	ObservePatches(fn func(Patch)) (stop func())

	// Dependents counts tracked readers plus patch observers.
	Dependents() int
}

type patchObserver struct {
	fn      func(Patch)
	stopped bool
}

// seq is the shared core of List and Array.
type seq[T any] struct {
	base source

	items []T
	mu    sync.RWMutex

	observers   []*patchObserver
	observersMu sync.Mutex
}

func (s *seq[T]) init(initial []T) {
	s.base.id = nextID()
	s.items = make([]T, len(initial))
	copy(s.items, initial)
}

// ID returns the unique identifier for this collection.
func (s *seq[T]) ID() uint64 {
	return s.base.id
}

// Len returns the number of items and subscribes the current listener.
func (s *seq[T]) Len() int {
	track(&s.base)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// At returns the item at i and subscribes the current listener.
func (s *seq[T]) At(i int) T {
	track(&s.base)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items[i]
}

// Items returns a copy of the items and subscribes the current listener.
func (s *seq[T]) Items() []T {
	track(&s.base)
	return s.Peek()
}

// Peek returns a copy of the items without subscribing.
func (s *seq[T]) Peek() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// ReadAny implements Readable.
func (s *seq[T]) ReadAny() any {
	return s.Items()
}

// Snapshot implements Collection.
func (s *seq[T]) Snapshot() []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return toAny(s.items)
}

// ObservePatches implements Collection.
func (s *seq[T]) ObservePatches(fn func(Patch)) (stop func()) {
	obs := &patchObserver{fn: fn}
	s.observersMu.Lock()
	s.observers = append(s.observers, obs)
	s.observersMu.Unlock()

	return func() {
		s.observersMu.Lock()
		defer s.observersMu.Unlock()
		if obs.stopped {
			return
		}
		obs.stopped = true
		for i, o := range s.observers {
			if o == obs {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Dependents implements Collection.
func (s *seq[T]) Dependents() int {
	s.observersMu.Lock()
	n := len(s.observers)
	s.observersMu.Unlock()
	return n + s.base.count()
}

// Push appends items and returns the new length.
func (s *seq[T]) Push(items ...T) int {
	if len(items) == 0 {
		return s.peekLen()
	}
	s.mu.Lock()
	index := len(s.items)
	s.items = append(s.items, items...)
	n := len(s.items)
	s.mu.Unlock()

	s.emit(Patch{Op: OpPush, Index: index, Items: toAny(items)})
	return n
}

// Pop removes and returns the last item.
func (s *seq[T]) Pop() (T, bool) {
	var zero T
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return zero, false
	}
	index := len(s.items) - 1
	item := s.items[index]
	s.items[index] = zero
	s.items = s.items[:index]
	s.mu.Unlock()

	s.emit(Patch{Op: OpPop, Index: index, Count: 1, Removed: []any{item}})
	return item, true
}

// Shift removes and returns the first item.
func (s *seq[T]) Shift() (T, bool) {
	var zero T
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return zero, false
	}
	item := s.items[0]
	s.items = append(s.items[:0:0], s.items[1:]...)
	s.mu.Unlock()

	s.emit(Patch{Op: OpShift, Index: 0, Count: 1, Removed: []any{item}})
	return item, true
}

// Unshift prepends items and returns the new length.
func (s *seq[T]) Unshift(items ...T) int {
	if len(items) == 0 {
		return s.peekLen()
	}
	s.mu.Lock()
	next := make([]T, 0, len(s.items)+len(items))
	next = append(next, items...)
	next = append(next, s.items...)
	s.items = next
	n := len(next)
	s.mu.Unlock()

	s.emit(Patch{Op: OpUnshift, Index: 0, Items: toAny(items)})
	return n
}

// Splice removes deleteCount items at start, inserts items there and
// returns the removed items. A negative start counts from the end; start
// and deleteCount are clamped to the current bounds.
func (s *seq[T]) Splice(start, deleteCount int, items ...T) []T {
	s.mu.Lock()
	n := len(s.items)
	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if start > n {
		start = n
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if deleteCount > n-start {
		deleteCount = n - start
	}
	if deleteCount == 0 && len(items) == 0 {
		s.mu.Unlock()
		return nil
	}

	removed := make([]T, deleteCount)
	copy(removed, s.items[start:start+deleteCount])

	next := make([]T, 0, n-deleteCount+len(items))
	next = append(next, s.items[:start]...)
	next = append(next, items...)
	next = append(next, s.items[start+deleteCount:]...)
	s.items = next
	s.mu.Unlock()

	s.emit(Patch{Op: OpSplice, Index: start, Count: deleteCount, Items: toAny(items), Removed: toAny(removed)})
	return removed
}

// Move relocates the item at from so that it ends up at index to.
func (s *seq[T]) Move(from, to int) bool {
	s.mu.Lock()
	n := len(s.items)
	if from < 0 || from >= n || to < 0 || to >= n {
		s.mu.Unlock()
		return false
	}
	if from == to {
		s.mu.Unlock()
		return true
	}
	item := s.items[from]
	rest := append(s.items[:from:from], s.items[from+1:]...)
	next := make([]T, 0, n)
	next = append(next, rest[:to]...)
	next = append(next, item)
	next = append(next, rest[to:]...)
	s.items = next
	s.mu.Unlock()

	s.emit(Patch{Op: OpMove, Index: from, To: to, Items: []any{item}})
	return true
}

// Replace swaps the whole contents.
func (s *seq[T]) Replace(items []T) {
	next := make([]T, len(items))
	copy(next, items)

	s.mu.Lock()
	removed := s.items
	s.items = next
	s.mu.Unlock()

	if len(removed) == 0 && len(next) == 0 {
		return
	}
	s.emit(Patch{Op: OpReplace, Index: 0, Count: len(removed), Items: toAny(next), Removed: toAny(removed)})
}

func (s *seq[T]) setAt(i int, v T) (old T, ok bool) {
	s.mu.Lock()
	if i < 0 || i >= len(s.items) {
		s.mu.Unlock()
		return old, false
	}
	old = s.items[i]
	s.items[i] = v
	s.mu.Unlock()

	s.emit(Patch{Op: OpSet, Index: i, Count: 1, Items: []any{v}, Removed: []any{old}})
	return old, true
}

func (s *seq[T]) peekLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// emit delivers p to patch observers in registration order, then marks
// tracked readers dirty.
func (s *seq[T]) emit(p Patch) {
	s.observersMu.Lock()
	observers := make([]*patchObserver, len(s.observers))
	copy(observers, s.observers)
	s.observersMu.Unlock()

	for _, obs := range observers {
		if !obs.stopped {
			obs.fn(p)
		}
	}
	s.base.notify()
}

func toAny[T any](items []T) []any {
	if items == nil {
		return nil
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
