package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is proof of an authenticated request context. Under the database
// strategy it mirrors a store row; under the jwt strategy it is reconstructed
// from token claims and ID is synthesized, not stored.
type Session struct {
	ID        string
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExpired reports whether the session lapsed at the given time.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Profile is the user snapshot a session carries. Under the jwt strategy it
// is embedded in the token claims; under the database strategy the store
// returns it alongside the session row.
type Profile struct {
	UserID        uuid.UUID
	Email         string
	Name          string
	EmailVerified bool
	Image         string
}

// Identity pairs a live session with its owner.
type Identity struct {
	Session Session
	Profile Profile
}

// generateToken creates a cryptographically secure session token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
