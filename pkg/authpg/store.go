package authpg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/session"
)

// Store implements auth.Store and session.Store on a pgx connection pool.
// Every method executes a single statement, so no explicit transactions are
// needed; the interfaces treat each call as atomic.
type Store struct {
	pool *pgxpool.Pool
}

var (
	_ auth.Store    = (*Store)(nil)
	_ session.Store = (*Store)(nil)
)

// New creates a Store on an established pool. The caller owns the pool's
// lifecycle; migrations must be applied before first use.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping validates connectivity for health reporting.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
