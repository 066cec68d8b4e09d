package authpg

import (
	"context"
	"time"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/pg"
)

// FindVerificationToken implements auth.Store.
func (s *Store) FindVerificationToken(ctx context.Context, identifier, token string) (*auth.VerificationToken, error) {
	var vt auth.VerificationToken
	err := s.pool.QueryRow(ctx, `
		SELECT identifier, token, token_type, expires_at, created_at
		FROM verification_tokens
		WHERE identifier = $1 AND token = $2`,
		identifier, token).Scan(&vt.Identifier, &vt.Token, &vt.Type, &vt.ExpiresAt, &vt.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrVerificationTokenNotFound
		}
		return nil, err
	}
	return &vt, nil
}

// InsertVerificationToken implements auth.Store.
func (s *Store) InsertVerificationToken(ctx context.Context, vt auth.VerificationToken) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO verification_tokens (identifier, token, token_type, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		vt.Identifier, vt.Token, vt.Type, vt.ExpiresAt, vt.CreatedAt)
	return err
}

// DeleteVerificationToken implements auth.Store. Deleting an absent token is
// not an error; consumption races resolve quietly.
func (s *Store) DeleteVerificationToken(ctx context.Context, identifier, token string) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM verification_tokens WHERE identifier = $1 AND token = $2",
		identifier, token)
	return err
}

// DeleteExpiredVerificationTokens implements auth.Store.
func (s *Store) DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM verification_tokens WHERE expires_at < $1", now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
