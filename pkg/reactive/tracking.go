package reactive

import (
	"sync"

	"github.com/outrigdev/goid"
)

// TrackingContext holds the reactive state for a goroutine.
type TrackingContext struct {
	// currentOwner is the Owner that will own newly created computations.
	currentOwner *Owner

	// currentListener is what's currently tracking dependencies.
	// nil means reads don't create subscriptions.
	currentListener Listener

	// batchDepth tracks nested Batch() calls.
	batchDepth int

	// pendingUpdates accumulates listeners to notify when a batch completes.
	pendingUpdates []Listener

	// microtasks are deferred callbacks drained by Flush.
	microtasks []func()
	flushing   bool
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getTrackingContext returns the tracking context for the current goroutine,
// creating it on first use.
func getTrackingContext() *TrackingContext {
	gid := goid.Get()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*TrackingContext)
	}

	ctx := &TrackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// ReleaseGoroutine drops the tracking context of the calling goroutine.
// Long-lived worker goroutines call it before exiting.
func ReleaseGoroutine() {
	trackingContexts.Delete(goid.Get())
}

func getCurrentListener() Listener {
	return getTrackingContext().currentListener
}

// setCurrentListener sets the current listener and returns the previous one.
func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

// CurrentOwner returns the owner new computations are registered with.
func CurrentOwner() *Owner {
	return getTrackingContext().currentOwner
}

func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	return old
}

func getBatchDepth() int {
	return getTrackingContext().batchDepth
}

func incrementBatchDepth() {
	getTrackingContext().batchDepth++
}

// decrementBatchDepth returns true if the outermost batch completed.
func decrementBatchDepth() bool {
	ctx := getTrackingContext()
	ctx.batchDepth--
	return ctx.batchDepth == 0
}

func queuePendingUpdate(l Listener) {
	ctx := getTrackingContext()
	ctx.pendingUpdates = append(ctx.pendingUpdates, l)
}

func drainPendingUpdates() []Listener {
	ctx := getTrackingContext()
	updates := ctx.pendingUpdates
	ctx.pendingUpdates = nil
	return updates
}

// WithOwner runs fn with owner as the current owner.
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}

// WithListener runs fn with l tracking dependencies.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}

// Tracking reports whether a listener is currently collecting dependencies.
func Tracking() bool {
	return getCurrentListener() != nil
}
