package sessions

import (
	"sync"

	"github.com/google/uuid"
)

// Manager maps opaque session tokens to user ids. It replaces any notion of a
// global "current user": callers hold the token returned by Create and present
// it on every authenticated request.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]int64
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]int64),
	}
}

// Create starts a session for the user and returns its opaque token.
func (m *Manager) Create(userID int64) string {
	token := uuid.New().String()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = userID

	return token
}

// Resolve returns the user id behind a token, if the session exists.
func (m *Manager) Resolve(token string) (int64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	userID, ok := m.sessions[token]
	return userID, ok
}

// Destroy ends a session. Destroying an unknown token is a no-op.
func (m *Manager) Destroy(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}
