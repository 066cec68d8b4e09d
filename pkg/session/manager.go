package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/logger"
)

// Manager creates, validates, refreshes, and destroys sessions under the
// configured strategy.
type Manager struct {
	strategy Strategy
	store    Store
	signer   *tokenSigner
	cfg      Config
	log      *slog.Logger
	now      func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore sets the backing store. Required for the database strategy;
// ignored under jwt.
func WithStore(store Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithLogger sets the manager's logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager validates the configuration and builds a manager. The database
// strategy falls back to an in-memory store when none is provided.
func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		strategy: cfg.Strategy,
		cfg:      cfg,
		log:      logger.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	switch cfg.Strategy {
	case StrategyDatabase:
		if m.store == nil {
			m.store = NewMemoryStore(cfg.CleanupInterval)
		}
	case StrategyJWT:
		m.signer = newTokenSigner(cfg.Secret, cfg.MaxAge)
	}

	return m, nil
}

// Create opens a session for the profile. Database strategy inserts a row
// keyed by a fresh random token; jwt strategy mints a signed token whose
// claims are the session, with a synthesized ID.
func (m *Manager) Create(ctx context.Context, profile Profile) (*Session, error) {
	now := m.now()

	if m.strategy == StrategyJWT {
		token, err := m.signer.mint(profile, now)
		if err != nil {
			return nil, err
		}
		return &Session{
			ID:        uuid.New().String(),
			UserID:    profile.UserID,
			Token:     token,
			ExpiresAt: now.Add(m.cfg.MaxAge),
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	sess := Session{
		ID:        uuid.New().String(),
		UserID:    profile.UserID,
		Token:     token,
		ExpiresAt: now.Add(m.cfg.MaxAge),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Insert(ctx, sess, profile); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Get resolves a token to its identity. Returns (nil, nil) for absent,
// expired, or invalid tokens; store failures propagate.
func (m *Manager) Get(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, nil
	}

	if m.strategy == StrategyJWT {
		return m.signer.verify(token, m.now())
	}

	id, err := m.store.FindByToken(ctx, token, m.now())
	if err != nil {
		if err == ErrSessionNotFound {
			return nil, nil
		}
		return nil, err
	}
	return id, nil
}

// Validate resolves the token and slides the session's activity timestamp.
// An expired session found by the re-check is deleted (database strategy)
// and reported as absent.
func (m *Manager) Validate(ctx context.Context, token string) (*Identity, error) {
	id, err := m.Get(ctx, token)
	if err != nil || id == nil {
		return nil, err
	}

	now := m.now()
	if id.Session.IsExpired(now) {
		if m.strategy == StrategyDatabase {
			if _, err := m.store.DeleteByToken(ctx, token); err != nil {
				m.log.Error("failed to delete expired session", logger.Error(err))
			}
		}
		return nil, nil
	}

	if m.strategy == StrategyDatabase {
		if err := m.store.Touch(ctx, token, now); err != nil {
			return nil, err
		}
		id.Session.UpdatedAt = now
	}

	return id, nil
}

// Update touches the session's UpdatedAt if it exists and is unexpired.
// Tokens are immutable under jwt, so that branch is a plain read.
func (m *Manager) Update(ctx context.Context, token string) (*Session, error) {
	id, err := m.Get(ctx, token)
	if err != nil || id == nil {
		return nil, err
	}

	if m.strategy == StrategyDatabase {
		now := m.now()
		if err := m.store.Touch(ctx, token, now); err != nil {
			return nil, err
		}
		id.Session.UpdatedAt = now
	}

	return &id.Session, nil
}

// Delete revokes the session. Database strategy reports whether a row was
// removed. The jwt branch is a documented no-op returning false: the token
// stays valid until natural expiry and callers must not present it as
// revoked.
func (m *Manager) Delete(ctx context.Context, token string) (bool, error) {
	if m.strategy == StrategyJWT {
		return false, nil
	}
	return m.store.DeleteByToken(ctx, token)
}

// DeleteAllForUser revokes every session of the user, returning the count.
// No-op under jwt, returning 0.
func (m *Manager) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.strategy == StrategyJWT {
		return 0, nil
	}
	return m.store.DeleteByUser(ctx, userID)
}

// CleanupExpired deletes all expired rows, returning the count. No-op under
// jwt, returning 0.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	if m.strategy == StrategyJWT {
		return 0, nil
	}
	return m.store.DeleteExpired(ctx, m.now())
}

// Strategy reports the configured strategy.
func (m *Manager) Strategy() Strategy {
	return m.strategy
}
