// Package kv provides a bounded in-memory memo safe for concurrent use.
package kv

import "sync"

// Memo holds at most a fixed number of values. When full, the value stored
// longest ago is dropped to make room. Replacing a key does not refresh its
// position.
type Memo[K comparable, V any] struct {
	mu    sync.Mutex
	limit int
	data  map[K]V
	order []K
}

// NewMemo creates a memo holding up to limit values. A limit of zero or
// less means unbounded.
func NewMemo[K comparable, V any](limit int) *Memo[K, V] {
	return &Memo[K, V]{limit: limit, data: make(map[K]V)}
}

// Get returns the value for key.
func (m *Memo[K, V]) Get(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// Set stores value, evicting the oldest key when the memo is full.
func (m *Memo[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[key]; !ok {
		if m.limit > 0 && len(m.order) >= m.limit {
			delete(m.data, m.order[0])
			m.order = m.order[1:]
		}
		m.order = append(m.order, key)
	}
	m.data[key] = value
}

// Delete removes key and reports whether it was present.
func (m *Memo[K, V]) Delete(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[key]; !ok {
		return false
	}
	delete(m.data, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of stored values.
func (m *Memo[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
