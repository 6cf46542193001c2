package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// LoginRequest carries the admin PIN
type LoginRequest struct {
	Pin string `json:"pin"`
}

// LoginResponse returns the session token granted for a correct PIN
type LoginResponse struct {
	SessionID string `json:"session_id"`
}

// GenerateSessionToken creates a cryptographically secure random token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
