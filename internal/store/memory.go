package store

import (
	"sync"

	"github.com/desertthunder/gaana/internal/models"
)

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	session Session
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(token string, user models.User) error {
	if err := checkSave(token); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = newSession(token, user)
	return nil
}

func (m *MemoryStore) Load() (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session.Empty() {
		return Session{}, nil
	}
	return newSession(m.session.Token, *m.session.User), nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{}
	return nil
}
