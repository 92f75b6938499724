package reactive

// Batch groups multiple updates into a single notification phase.
// Listeners notified inside the batch are deduplicated and marked dirty once
// when the outermost batch completes. Patch observers are not batched: they
// see every structural change immediately and in order.
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			processPendingUpdates()
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies all pending listeners.
func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	unique := make([]Listener, 0, len(updates))
	for _, listener := range updates {
		id := listener.ID()
		if !seen[id] {
			seen[id] = true
			unique = append(unique, listener)
		}
	}

	for _, listener := range unique {
		listener.MarkDirty()
	}
}

// Untracked runs fn without tracking reads as dependencies.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}

// Peek reads r without creating a dependency.
func Peek(r Readable) any {
	var v any
	Untracked(func() { v = r.ReadAny() })
	return v
}
