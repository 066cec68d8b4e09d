package guard

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/authkit/pkg/logger"
)

// Config aggregates the gate's tunables for env-based loading.
type Config struct {
	RateLimit RateLimitConfig
	Password  PasswordPolicy

	CSRFMaxAge    time.Duration `env:"GUARD_CSRF_MAX_AGE" envDefault:"1h"`
	EventCapacity int           `env:"GUARD_EVENT_CAPACITY" envDefault:"1000"`
}

// Guard is the security-policy gate. It composes the rate limiter, the CSRF
// codec, the password policy, and the security-event log behind one facade.
type Guard struct {
	limiter *RateLimiter
	csrf    *CSRF
	policy  PasswordPolicy
	events  *EventLog
	log     *slog.Logger

	// ownedStore is closed by Close when the guard created it itself.
	ownedStore *MemoryRateLimitStore
}

// Option configures a Guard.
type Option func(*options)

type options struct {
	cfg    Config
	store  RateLimitStore
	logger *slog.Logger
}

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithRateLimitStore swaps the backing store, e.g. for Redis in
// multi-instance deployments. The caller owns the store's lifecycle.
func WithRateLimitStore(store RateLimitStore) Option {
	return func(o *options) { o.store = store }
}

// WithLogger sets the logger used for advisory suspicious-activity reports.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.logger = log }
}

// New creates a gate signing CSRF tokens with secret. Defaults: in-memory
// rate limiting with a background sweeper, the standard password policy, and
// a discarding logger.
func New(secret string, opts ...Option) *Guard {
	o := &options{
		cfg: Config{
			RateLimit:     DefaultRateLimitConfig(),
			Password:      DefaultPasswordPolicy(),
			CSRFMaxAge:    DefaultCSRFMaxAge,
			EventCapacity: DefaultEventCapacity,
		},
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}

	g := &Guard{
		csrf:   NewCSRF(secret, o.cfg.CSRFMaxAge),
		policy: o.cfg.Password,
		events: NewEventLog(o.cfg.EventCapacity),
		log:    o.logger,
	}

	store := o.store
	if store == nil {
		owned := NewMemoryRateLimitStore(o.cfg.RateLimit.SweepInterval)
		g.ownedStore = owned
		store = owned
	}
	g.limiter = NewRateLimiter(store, o.cfg.RateLimit)

	return g
}

// Allow records an attempt for (action, origin) and returns the window state.
// A denied attempt yields ErrRateLimitExceeded alongside the result so callers
// can surface Remaining and ResetAt.
func (g *Guard) Allow(ctx context.Context, action, origin string) (*RateLimitResult, error) {
	res, err := g.limiter.Check(ctx, Key(action, origin))
	if err != nil {
		return nil, err
	}
	if !res.Allowed {
		g.events.Record(EventViolation, origin, "rate limit exceeded for "+action)
		return res, ErrRateLimitExceeded
	}
	return res, nil
}

// RecordSuccess erases the identifier's failure history and logs the outcome.
func (g *Guard) RecordSuccess(ctx context.Context, action, origin string) error {
	g.events.Record(EventAuthSuccess, origin, action)
	return g.limiter.RecordSuccess(ctx, Key(action, origin))
}

// RecordFailure logs a failed authentication attempt. When the identifier
// crosses the suspicious-activity threshold an advisory warning is emitted;
// nothing is blocked here, the rate limiter does that on its own schedule.
func (g *Guard) RecordFailure(action, origin string) {
	g.events.Record(EventAuthFailure, origin, action)
	if g.events.Suspicious(origin) {
		g.log.Warn("suspicious authentication activity",
			slog.String("origin", origin),
			logger.Event(action),
		)
	}
}

// IssueCSRF creates a CSRF token bound to the session.
func (g *Guard) IssueCSRF(sessionID string) string {
	return g.csrf.Issue(sessionID)
}

// ValidateCSRF checks a CSRF token against its session. Failures are recorded
// as violations and returned as typed errors.
func (g *Guard) ValidateCSRF(token, sessionID string) error {
	if err := g.csrf.Validate(token, sessionID); err != nil {
		g.events.Record(EventViolation, sessionID, "csrf validation failed")
		return err
	}
	return nil
}

// CheckPassword scores a candidate password against the configured policy.
func (g *Guard) CheckPassword(password string, user UserInfo) PasswordStrength {
	return g.policy.Check(password, user)
}

// Suspicious reports whether the identifier recently accumulated enough
// failures to warrant attention. Advisory only.
func (g *Guard) Suspicious(origin string) bool {
	return g.events.Suspicious(origin)
}

// Events returns up to n most recent security events, newest first.
func (g *Guard) Events(n int) []SecurityEvent {
	return g.events.Recent(n)
}

// Close releases resources owned by the guard. Stores injected via
// WithRateLimitStore are not touched.
func (g *Guard) Close() error {
	if g.ownedStore != nil {
		return g.ownedStore.Close()
	}
	return nil
}
