package reactive

// Listener is anything that can be notified when a dependency changes.
// This interface is implemented by computed values, autoruns and patchers.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies has changed.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}

// Disposer is implemented by every primitive that holds subscriptions.
type Disposer interface {
	Dispose()
}

// DisposerFunc adapts a plain function to Disposer.
type DisposerFunc func()

// Dispose calls f.
func (f DisposerFunc) Dispose() { f() }

// Readable is a type-erased reactive value. ReadAny tracks like Get.
type Readable interface {
	ReadAny() any
}

// tracker is a listener that remembers the sources it subscribed to so it
// can unsubscribe from all of them before re-running or on dispose.
type tracker interface {
	Listener
	addSource(s *source)
}

// track subscribes the current listener, if any, to s.
func track(s *source) {
	l := getCurrentListener()
	if l == nil {
		return
	}
	s.subscribe(l)
	if t, ok := l.(tracker); ok {
		t.addSource(s)
	}
}
