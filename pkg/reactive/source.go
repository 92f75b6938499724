package reactive

import "sync"

// source provides type-erased subscriber management.
// It is embedded in every reactive value to share subscription logic.
type source struct {
	id uint64

	// subs are the listeners subscribed to this source.
	subs  []Listener
	subMu sync.RWMutex
}

// subscribe adds a listener, deduplicating by listener ID.
func (s *source) subscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}
	s.subs = append(s.subs, l)
}

// unsubscribe removes a listener.
func (s *source) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			// Keep subscription order stable: notification order follows it.
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// notify marks every subscriber dirty, or queues them while a batch is open.
// Subscribers are copied first so listeners may (un)subscribe while notified.
func (s *source) notify() {
	s.subMu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	if getBatchDepth() > 0 {
		for _, sub := range subs {
			queuePendingUpdate(sub)
		}
		return
	}
	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// count returns the number of current subscribers.
func (s *source) count() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}
