package session

import (
	"sync"
	"time"

	"digitpad/domain/core"
	"digitpad/ports"
)

type entry[S any] struct {
	value    S
	lastSeen time.Time
}

// MemoryStore keeps sessions in process memory. The page view is the
// session lifetime, so nothing is persisted.
type MemoryStore[S any] struct {
	mu      sync.RWMutex
	entries map[core.SessionID]*entry[S]
	now     func() time.Time
}

var _ ports.SessionRepository[struct{}] = (*MemoryStore[struct{}])(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore[S any]() *MemoryStore[S] {
	return &MemoryStore[S]{
		entries: make(map[core.SessionID]*entry[S]),
		now:     time.Now,
	}
}

// Put stores value under id, replacing any previous value.
func (m *MemoryStore[S]) Put(id core.SessionID, value S) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = &entry[S]{value: value, lastSeen: m.now()}
}

// Get returns the value for id and marks it as recently used.
func (m *MemoryStore[S]) Get(id core.SessionID) (S, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		var zero S
		return zero, core.ErrSessionNotFound
	}
	e.lastSeen = m.now()
	return e.value, nil
}

// Delete removes id.
func (m *MemoryStore[S]) Delete(id core.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
}

// Expire removes every entry last used before cutoff.
func (m *MemoryStore[S]) Expire(cutoff time.Time) []S {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expired []S
	for id, e := range m.entries {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.value)
			delete(m.entries, id)
		}
	}
	return expired
}

// Len returns the number of live sessions.
func (m *MemoryStore[S]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
