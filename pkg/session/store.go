package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists database-strategy sessions. Implementations must treat each
// operation as atomic; the manager never holds locks across store calls.
type Store interface {
	// Insert persists a new session row.
	Insert(ctx context.Context, sess Session, profile Profile) error

	// FindByToken returns the session and its owning profile. Rows with
	// ExpiresAt <= now are treated as absent. Returns ErrSessionNotFound
	// when no live row matches.
	FindByToken(ctx context.Context, token string, now time.Time) (*Identity, error)

	// Touch updates the session's UpdatedAt for sliding activity tracking.
	Touch(ctx context.Context, token string, at time.Time) error

	// DeleteByToken removes the row and reports whether one existed.
	DeleteByToken(ctx context.Context, token string) (bool, error)

	// DeleteByUser removes all of the user's sessions, returning the count.
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// DeleteExpired removes rows with ExpiresAt < now, returning the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
