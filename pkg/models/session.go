package models

import (
	"time"
)

// AdminSession represents an authenticated admin session created by the PIN gate
type AdminSession struct {
	Token        string    `json:"token"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
}

// IsExpired checks if the session has expired (12-hour inactivity TTL)
func (s *AdminSession) IsExpired() bool {
	return time.Since(s.LastAccessed) > 12*time.Hour
}

// UpdateLastAccessed updates the last accessed timestamp
func (s *AdminSession) UpdateLastAccessed() {
	s.LastAccessed = time.Now()
}

// SessionStore interface for validating admin sessions
type SessionStore interface {
	Validate(token string) error
}
