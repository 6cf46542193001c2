package auth

import (
	"errors"
	"sync"
	"time"

	"pasteleria-backend/pkg/models"
)

// MemoryStore provides in-memory storage for admin sessions
type MemoryStore struct {
	sessions map[string]*models.AdminSession // token -> session
	mutex    sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]*models.AdminSession),
	}

	go store.startCleanupRoutine()

	return store
}

// CreateSession mints a new session with a fresh random token
func (m *MemoryStore) CreateSession() (*models.AdminSession, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	session := &models.AdminSession{
		Token:        token,
		CreatedAt:    time.Now(),
		LastAccessed: time.Now(),
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.sessions[token] = session
	return session, nil
}

func (m *MemoryStore) GetSession(token string) (*models.AdminSession, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	session, exists := m.sessions[token]
	if !exists {
		return nil, errors.New("session not found")
	}

	// Check if session is expired
	if session.IsExpired() {
		delete(m.sessions, token)
		return nil, errors.New("session expired")
	}

	// Update last accessed time
	session.UpdateLastAccessed()

	return session, nil
}

func (m *MemoryStore) DeleteSession(token string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.sessions, token)
}

func (m *MemoryStore) SessionCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return len(m.sessions)
}

func (m *MemoryStore) startCleanupRoutine() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		m.cleanupExpiredSessions()
	}
}

func (m *MemoryStore) cleanupExpiredSessions() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for token, session := range m.sessions {
		if session.IsExpired() {
			delete(m.sessions, token)
		}
	}
}
