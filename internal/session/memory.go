package session

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[int64]Session{}}
}

func (m *MemoryStore) Load(_ context.Context, tgID int64) (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[tgID]
	return s, ok, nil
}

func (m *MemoryStore) Save(_ context.Context, tgID int64, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[tgID] = s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tgID)
	return nil
}
