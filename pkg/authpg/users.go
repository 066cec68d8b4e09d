package authpg

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/pg"
)

const userColumns = "id, email, name, email_verified, image, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.EmailVerified, &u.Image, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindUserByEmail implements auth.Store.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

// FindUserByID implements auth.Store.
func (s *Store) FindUserByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

// InsertUser implements auth.Store.
func (s *Store) InsertUser(ctx context.Context, user *auth.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, name, email_verified, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.Name, user.EmailVerified, user.Image, user.CreatedAt, user.UpdatedAt)
	if pg.IsDuplicateKeyError(err) {
		return auth.ErrEmailAlreadyExists
	}
	return err
}

// UpdateUser implements auth.Store.
func (s *Store) UpdateUser(ctx context.Context, user *auth.User) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET email = $2, name = $3, email_verified = $4, image = $5, updated_at = $6
		WHERE id = $1`,
		user.ID, user.Email, user.Name, user.EmailVerified, user.Image, user.UpdatedAt)
	if pg.IsDuplicateKeyError(err) {
		return auth.ErrEmailAlreadyExists
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// GetPasswordHash implements auth.Store. Users created through OAuth have no
// credential row; that absence is reported as auth.ErrPasswordHashNotFound.
func (s *Store) GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	var hash []byte
	err := s.pool.QueryRow(ctx,
		"SELECT hash FROM password_credentials WHERE user_id = $1", userID).Scan(&hash)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrPasswordHashNotFound
		}
		return nil, err
	}
	return hash, nil
}

// SetPasswordHash implements auth.Store as an upsert.
func (s *Store) SetPasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO password_credentials (user_id, hash, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET hash = EXCLUDED.hash, updated_at = now()`,
		userID, hash)
	return err
}
