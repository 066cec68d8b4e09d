package authpg

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/pg"
	"github.com/dmitrymomot/authkit/pkg/session"
)

// Insert implements session.Store. The profile argument is ignored because
// FindByToken joins the users table for a live snapshot instead of storing a
// copy taken at sign-in time.
func (s *Store) Insert(ctx context.Context, sess session.Session, _ session.Profile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		sess.ID, sess.UserID, sess.Token, sess.ExpiresAt, sess.CreatedAt, sess.UpdatedAt)
	return err
}

// FindByToken implements session.Store. Expired rows are reported as absent.
func (s *Store) FindByToken(ctx context.Context, token string, now time.Time) (*session.Identity, error) {
	var id session.Identity
	err := s.pool.QueryRow(ctx, `
		SELECT s.id, s.user_id, s.token, s.expires_at, s.created_at, s.updated_at,
		       u.email, u.name, u.email_verified, u.image
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > $2`,
		token, now).Scan(
		&id.Session.ID, &id.Session.UserID, &id.Session.Token,
		&id.Session.ExpiresAt, &id.Session.CreatedAt, &id.Session.UpdatedAt,
		&id.Profile.Email, &id.Profile.Name, &id.Profile.EmailVerified, &id.Profile.Image)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, session.ErrSessionNotFound
		}
		return nil, err
	}
	id.Profile.UserID = id.Session.UserID
	return &id, nil
}

// Touch implements session.Store.
func (s *Store) Touch(ctx context.Context, token string, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE sessions SET updated_at = $2 WHERE token = $1", token, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

// DeleteByToken implements session.Store.
func (s *Store) DeleteByToken(ctx context.Context, token string) (bool, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM sessions WHERE token = $1", token)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteByUser implements session.Store.
func (s *Store) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM sessions WHERE user_id = $1", userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteExpired implements session.Store.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM sessions WHERE expires_at <= $1", now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
