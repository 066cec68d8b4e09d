package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/session"
)

func storedSession(userID uuid.UUID, token string, expiresAt time.Time) session.Session {
	now := expiresAt.Add(-time.Hour)
	return session.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("find filters expired rows", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		t.Cleanup(func() { _ = store.Close() })

		userID := uuid.New()
		require.NoError(t, store.Insert(ctx, storedSession(userID, "tok", now.Add(time.Minute)), session.Profile{UserID: userID}))

		id, err := store.FindByToken(ctx, "tok", now)
		require.NoError(t, err)
		assert.Equal(t, userID, id.Session.UserID)

		_, err = store.FindByToken(ctx, "tok", now.Add(2*time.Minute))
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("touch on missing token", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		t.Cleanup(func() { _ = store.Close() })

		err := store.Touch(ctx, "missing", now)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("touch persists the new timestamp", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		t.Cleanup(func() { _ = store.Close() })

		userID := uuid.New()
		require.NoError(t, store.Insert(ctx, storedSession(userID, "tok", now.Add(time.Hour)), session.Profile{UserID: userID}))

		at := now.Add(time.Minute)
		require.NoError(t, store.Touch(ctx, "tok", at))

		id, err := store.FindByToken(ctx, "tok", at)
		require.NoError(t, err)
		assert.Equal(t, at, id.Session.UpdatedAt)
	})

	t.Run("delete expired counts removals", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		t.Cleanup(func() { _ = store.Close() })

		userID := uuid.New()
		require.NoError(t, store.Insert(ctx, storedSession(userID, "old", now.Add(-time.Minute)), session.Profile{UserID: userID}))
		require.NoError(t, store.Insert(ctx, storedSession(userID, "live", now.Add(time.Hour)), session.Profile{UserID: userID}))

		count, err := store.DeleteExpired(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.Equal(t, 1, store.Len())
	})
}
