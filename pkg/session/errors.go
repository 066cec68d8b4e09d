package session

import "errors"

var (
	// ErrMissingStore is returned when the database strategy is configured
	// without a backing store.
	ErrMissingStore = errors.New("session: store is required for database strategy")

	// ErrMissingSecret is returned when the jwt strategy is configured
	// without a signing secret.
	ErrMissingSecret = errors.New("session: signing secret is required for jwt strategy")

	// ErrUnknownStrategy is returned for a strategy outside database|jwt.
	ErrUnknownStrategy = errors.New("session: unknown strategy")

	// ErrSessionNotFound is returned by stores when no row matches the token.
	ErrSessionNotFound = errors.New("session: not found")

	// ErrTokenGeneration is returned when secure random bytes are unavailable.
	ErrTokenGeneration = errors.New("session: failed to generate token")
)
