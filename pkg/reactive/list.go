package reactive

// List is a dedicated reactive list. All mutations are reported as patches.
type List[T any] struct {
	seq[T]
}

// NewList creates a list holding a copy of initial.
func NewList[T any](initial ...T) *List[T] {
	l := &List[T]{}
	l.init(initial)
	return l
}

// Kind implements Collection.
func (l *List[T]) Kind() CollectionKind {
	return KindList
}

// Set replaces the item at i. It reports false when i is out of range.
func (l *List[T]) Set(i int, v T) bool {
	_, ok := l.setAt(i, v)
	return ok
}
