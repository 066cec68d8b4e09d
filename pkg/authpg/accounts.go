package authpg

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/pg"
)

// FindAccountByProvider implements auth.Store.
func (s *Store) FindAccountByProvider(ctx context.Context, provider, providerAccountID string) (*auth.Account, error) {
	var a auth.Account
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, provider, provider_account_id,
		       access_token, refresh_token, expires_at, created_at, updated_at
		FROM accounts
		WHERE provider = $1 AND provider_account_id = $2`,
		provider, providerAccountID).Scan(
		&a.ID, &a.UserID, &a.Provider, &a.ProviderAccountID,
		&a.AccessToken, &a.RefreshToken, &a.ExpiresAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// InsertAccount implements auth.Store.
func (s *Store) InsertAccount(ctx context.Context, account *auth.Account) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO accounts (id, user_id, provider, provider_account_id,
		                      access_token, refresh_token, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		account.ID, account.UserID, account.Provider, account.ProviderAccountID,
		account.AccessToken, account.RefreshToken, account.ExpiresAt,
		account.CreatedAt, account.UpdatedAt)
	return err
}

// UpdateAccountTokens implements auth.Store. An empty refresh token keeps the
// stored one; providers often return it only on the first exchange.
func (s *Store) UpdateAccountTokens(ctx context.Context, accountID uuid.UUID, tokens auth.ProviderTokens) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE accounts
		SET access_token = $2,
		    refresh_token = CASE WHEN $3 = '' THEN refresh_token ELSE $3 END,
		    expires_at = $4,
		    updated_at = now()
		WHERE id = $1`,
		accountID, tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrAccountNotFound
	}
	return nil
}
