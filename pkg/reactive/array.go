package reactive

// Array is an observable array. Besides the structural operations it
// supports index assignment, which is reported as a keyed update when the
// index exists and as a keyed add when it does not, and keyed deletion.
type Array[T any] struct {
	seq[T]
}

// NewArray creates an array holding a copy of initial.
func NewArray[T any](initial ...T) *Array[T] {
	a := &Array[T]{}
	a.init(initial)
	return a
}

// Kind implements Collection.
func (a *Array[T]) Kind() CollectionKind {
	return KindArray
}

// SetAt assigns v at index i. Assigning past the end grows the array with
// zero values and emits OpAdd.
func (a *Array[T]) SetAt(i int, v T) {
	if i < 0 {
		return
	}
	if _, ok := a.setAt(i, v); ok {
		return
	}

	a.mu.Lock()
	var zero T
	for len(a.items) < i {
		a.items = append(a.items, zero)
	}
	a.items = append(a.items, v)
	a.mu.Unlock()

	a.emit(Patch{Op: OpAdd, Index: i, Items: []any{v}})
}

// Delete clears the item at i to its zero value without changing the length.
func (a *Array[T]) Delete(i int) {
	a.mu.Lock()
	if i < 0 || i >= len(a.items) {
		a.mu.Unlock()
		return
	}
	old := a.items[i]
	var zero T
	a.items[i] = zero
	a.mu.Unlock()

	a.emit(Patch{Op: OpDelete, Index: i, Removed: []any{old}})
}
