package reactive

// Defer queues fn to run on the next Flush of the calling goroutine.
func Defer(fn func()) {
	ctx := getTrackingContext()
	ctx.microtasks = append(ctx.microtasks, fn)
}

// Pending returns the number of queued microtasks.
func Pending() int {
	return len(getTrackingContext().microtasks)
}

// Flush drains the microtask queue, including tasks queued while draining,
// and returns how many ran. A nested Flush from inside a task is a no-op.
func Flush() int {
	ctx := getTrackingContext()
	if ctx.flushing {
		return 0
	}
	ctx.flushing = true
	defer func() { ctx.flushing = false }()

	n := 0
	for len(ctx.microtasks) > 0 {
		queue := ctx.microtasks
		ctx.microtasks = nil
		for _, fn := range queue {
			fn()
			n++
		}
	}
	return n
}

// Coalesced returns an Autorun scheduler that collapses every notification
// received before the next Flush into a single run.
func Coalesced() func(run func()) {
	pending := false
	return func(run func()) {
		if pending {
			return
		}
		pending = true
		Defer(func() {
			pending = false
			run()
		})
	}
}
