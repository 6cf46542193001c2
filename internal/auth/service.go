package auth

import (
	"crypto/subtle"
	"errors"
	"os"
	"strings"

	"pasteleria-backend/pkg/models"
)

var (
	ErrInvalidPin   = errors.New("invalid PIN")
	ErrMissingPin   = errors.New("admin PIN is not configured")
	ErrInvalidToken = errors.New("invalid or expired session")
)

// Service implements the PIN-gated admin authentication. A single shared
// PIN unlocks a session token; everything admin-facing validates against
// the token afterwards.
type Service struct {
	store *MemoryStore
	pin   string
}

func NewService() *Service {
	return &Service{
		store: NewMemoryStore(),
		pin:   strings.TrimSpace(os.Getenv("ADMIN_PIN")),
	}
}

// Login exchanges a correct PIN for a session token
func (s *Service) Login(pin string) (*models.AdminSession, error) {
	if s.pin == "" {
		return nil, ErrMissingPin
	}

	// Constant-time comparison keeps the check timing-independent
	if subtle.ConstantTimeCompare([]byte(pin), []byte(s.pin)) != 1 {
		return nil, ErrInvalidPin
	}

	return s.store.CreateSession()
}

// Validate checks a session token. It satisfies models.SessionStore so
// other handlers can gate their admin endpoints on it.
func (s *Service) Validate(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidToken
	}

	if _, err := s.store.GetSession(token); err != nil {
		return ErrInvalidToken
	}

	return nil
}

// SignOut removes a session. Unknown tokens are not an error.
func (s *Service) SignOut(token string) {
	s.store.DeleteSession(token)
}

// GetSessionCount returns the number of live admin sessions
func (s *Service) GetSessionCount() int {
	return s.store.SessionCount()
}
