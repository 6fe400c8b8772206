package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/bryanwahyu/ux-critique/internal/domain/session"
)

// MemoryStore keeps sessions in a process-local map. All state is lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*session.Session)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// Put replaces the whole entry. A Put racing a Sweep may re-create a swept session;
// the next Sweep removes it again since CreatedAt is kept.
func (m *MemoryStore) Put(_ context.Context, s *session.Session) error {
	cp := *s
	m.mu.Lock()
	m.sessions[s.ID] = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Touch(_ context.Context, id string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		m.sessions[id] = &session.Session{ID: id, CreatedAt: now}
	}
	return nil
}

func (m *MemoryStore) Sweep(_ context.Context, now time.Time, maxAge time.Duration) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []string
	for id, s := range m.sessions {
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
			continue
		}
		if s.Expired(now, maxAge) {
			delete(m.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed, nil
}

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
