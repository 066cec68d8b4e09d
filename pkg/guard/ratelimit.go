package guard

import (
	"context"
	"time"
)

// Actions subject to rate limiting. Keys are built as "<action>:<origin>".
const (
	ActionSignIn        = "sign-in"
	ActionSignUp        = "sign-up"
	ActionSignOut       = "sign-out"
	ActionPasswordReset = "password-reset"
	ActionOAuthCallback = "oauth-callback"
)

// CSRFRequired reports whether the action changes state and therefore needs a
// valid CSRF token. OAuth callbacks are protected by the state parameter
// instead.
func CSRFRequired(action string) bool {
	switch action {
	case ActionSignIn, ActionSignUp, ActionSignOut, ActionPasswordReset:
		return true
	}
	return false
}

// Key builds the rate-limit identifier for an action and request origin.
func Key(action, origin string) string {
	return action + ":" + origin
}

// RateLimitConfig controls the sliding window and the hard-block escalation.
type RateLimitConfig struct {
	// MaxAttempts within Window before the identifier is blocked.
	MaxAttempts int `env:"GUARD_RATE_LIMIT_MAX_ATTEMPTS" envDefault:"5"`

	Window time.Duration `env:"GUARD_RATE_LIMIT_WINDOW" envDefault:"15m"`

	// BlockDuration extends the reset deadline once MaxAttempts is exceeded.
	BlockDuration time.Duration `env:"GUARD_RATE_LIMIT_BLOCK_DURATION" envDefault:"30m"`

	// SweepInterval for the background cleanup of stale entries (0 disables).
	SweepInterval time.Duration `env:"GUARD_RATE_LIMIT_SWEEP_INTERVAL" envDefault:"5m"`
}

// DefaultRateLimitConfig returns the production defaults.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxAttempts:   5,
		Window:        15 * time.Minute,
		BlockDuration: 30 * time.Minute,
		SweepInterval: 5 * time.Minute,
	}
}

// RateLimitResult is the outcome of a single rate-limit check.
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long to wait before the next attempt may succeed.
// Returns 0 if the attempt was allowed.
func (r *RateLimitResult) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return time.Until(r.ResetAt)
}

// RateLimitStore persists per-identifier attempt windows. Hit must be atomic
// per key: two concurrent calls for the same key must never both observe
// "allowed" when only one increment should have crossed the threshold.
type RateLimitStore interface {
	// Hit records an attempt for key at the given time and returns the
	// resulting window state.
	//
	// Semantics: a fresh or elapsed window restarts at count=1; a blocked
	// entry denies everything until its deadline passes; crossing
	// MaxAttempts flips the entry to blocked and extends the deadline by
	// BlockDuration.
	Hit(ctx context.Context, key string, now time.Time, cfg RateLimitConfig) (*RateLimitResult, error)

	// Reset deletes the entry for key. Called on successful authentication
	// so prior failures stop counting against the identifier.
	Reset(ctx context.Context, key string) error
}

// RateLimiter applies a RateLimitConfig to a store.
type RateLimiter struct {
	store RateLimitStore
	cfg   RateLimitConfig
	now   func() time.Time
}

// NewRateLimiter creates a limiter over the given store.
func NewRateLimiter(store RateLimitStore, cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

// Check records an attempt for the identifier and returns the window state.
// The result is returned even when the attempt is denied so callers can
// surface Remaining/ResetAt to clients.
func (l *RateLimiter) Check(ctx context.Context, identifier string) (*RateLimitResult, error) {
	return l.store.Hit(ctx, identifier, l.now(), l.cfg)
}

// RecordSuccess erases the identifier's failure history.
func (l *RateLimiter) RecordSuccess(ctx context.Context, identifier string) error {
	return l.store.Reset(ctx, identifier)
}
