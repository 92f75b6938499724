// Package reactive provides the fine-grained reactive primitives livetree
// hosts subscribe to.
//
// Dependencies are tracked at runtime: reading an Atom or Computed while a
// listener is current subscribes that listener to the value.
//
// # Core Types
//
// Atom[T] is a mutable reactive value:
//
//	count := NewAtom(0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Set(5)          // Write (notifies subscribers)
//
// Computed[T] is a cached derived value that recomputes lazily:
//
//	doubled := NewComputed(func() int { return count.Get() * 2 })
//
// Autorun re-runs a function whenever anything it read changes. Runs can
// register cleanups, suspend tracking and defer re-runs through a scheduler:
//
//	NewAutorun(func(r *Run) {
//	    fmt.Println("count is", count.Get())
//	    r.OnCleanup(func() { fmt.Println("before next run") })
//	})
//
// List[T] and Array[T] are reactive collections. Every mutation is
// described by a Patch delivered, in order, to patch observers. A Patcher
// is a computation that is initialized once and then only ever advanced by
// patches.
//
// # Microtasks
//
// Defer queues work for the next Flush. Coalesced returns an Autorun
// scheduler that runs at most once per flush regardless of how many
// notifications arrive in between.
//
// # Ownership
//
// Computations created while an Owner is current are registered with it
// and disposed with it. Dispose is idempotent on every primitive.
//
// # Threading
//
// Tracking state (current listener, owner, batch depth, microtask queue)
// is kept per goroutine. A reactive graph is meant to be driven from one
// goroutine at a time.
package reactive
