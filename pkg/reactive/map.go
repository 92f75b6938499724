package reactive

import (
	"sort"
	"sync"
)

// Map is a reactive keyed map. Readers subscribe to the whole map.
type Map[K comparable, V any] struct {
	base source

	entries map[K]V
	mu      sync.RWMutex
}

// NewMap creates an empty map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		base:    source{id: nextID()},
		entries: make(map[K]V),
	}
}

// Get returns the value for key and subscribes the current listener.
func (m *Map[K, V]) Get(key K) (V, bool) {
	track(&m.base)
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

// Peek returns the value for key without subscribing.
func (m *Map[K, V]) Peek(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

// Set stores value under key.
func (m *Map[K, V]) Set(key K, value V) {
	m.mu.Lock()
	m.entries[key] = value
	m.mu.Unlock()
	m.base.notify()
}

// Delete removes key.
func (m *Map[K, V]) Delete(key K) {
	m.mu.Lock()
	_, ok := m.entries[key]
	delete(m.entries, key)
	m.mu.Unlock()
	if ok {
		m.base.notify()
	}
}

// Len returns the number of entries and subscribes the current listener.
func (m *Map[K, V]) Len() int {
	track(&m.base)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Keys returns the keys ordered by keyLess when provided, else unspecified.
func (m *Map[K, V]) Keys(keyLess func(a, b K) bool) []K {
	track(&m.base)
	m.mu.RLock()
	keys := make([]K, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	m.mu.RUnlock()
	if keyLess != nil {
		sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	}
	return keys
}

// Dependents returns how many listeners are subscribed.
func (m *Map[K, V]) Dependents() int {
	return m.base.count()
}
