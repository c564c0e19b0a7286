package store

import (
	"sync"
	"time"
)

// Manager hands out one store per storefront session. Stores are created on
// first use and evicted after sitting idle for the configured TTL; session
// state is reconstructable from the URL, so eviction only costs a refetch.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

type session struct {
	store    *Store
	lastSeen time.Time
}

// NewManager creates a session manager with the given idle TTL.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the store for the given session, creating it if needed.
// Expired sessions are swept opportunistically on each call.
func (m *Manager) Get(sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	if s, ok := m.sessions[sessionID]; ok {
		s.lastSeen = now
		return s.store
	}

	s := &session{store: New(), lastSeen: now}
	m.sessions[sessionID] = s
	return s.store
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// sweep removes sessions idle longer than the TTL. Caller holds the lock.
func (m *Manager) sweep(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.ttl {
			delete(m.sessions, id)
		}
	}
}
