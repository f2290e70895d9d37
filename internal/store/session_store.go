// Package store keeps live conversation sessions for the lifetime of
// the process. Sessions are not persisted; eviction loses them.
package store

import (
	"sync"
	"time"

	"heartcheck/internal/model"
)

// SessionStore is the keyed session registry injected into the
// conversation service. Implementations must support concurrent
// insert/lookup/delete across different session ids.
type SessionStore interface {
	Get(id string) (*model.ChatSession, bool)
	Put(session *model.ChatSession)
	Delete(id string)
}

// MemoryStore is the in-process SessionStore. It hands out live
// pointers; per-session message serialization is the session's own
// lock, not the store's. Idle tracking uses the store's own per-id
// timestamps, never session fields, so eviction does not contend with
// message handling.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*model.ChatSession
	lastSeen map[string]time.Time
	maxIdle  time.Duration
}

// NewMemoryStore creates a store evicting sessions idle longer than
// maxIdle (zero disables eviction).
func NewMemoryStore(maxIdle time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*model.ChatSession),
		lastSeen: make(map[string]time.Time),
		maxIdle:  maxIdle,
	}
}

// Get looks up a session by id. A hit counts as activity.
func (s *MemoryStore) Get(id string) (*model.ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.maxIdle > 0 && time.Since(s.lastSeen[id]) > s.maxIdle {
		delete(s.sessions, id)
		delete(s.lastSeen, id)
		return nil, false
	}
	s.lastSeen[id] = time.Now()
	return sess, true
}

// Put registers a session under its id.
func (s *MemoryStore) Put(session *model.ChatSession) {
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.lastSeen[session.ID] = time.Now()
	s.mu.Unlock()
}

// Delete removes a session.
func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	delete(s.lastSeen, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
