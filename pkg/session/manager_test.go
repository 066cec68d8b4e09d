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

func testProfile() session.Profile {
	return session.Profile{
		UserID:        uuid.New(),
		Email:         "alice@example.com",
		Name:          "Alice",
		EmailVerified: true,
		Image:         "https://example.com/alice.png",
	}
}

func databaseManager(t *testing.T, now *time.Time) *session.Manager {
	t.Helper()

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	m, err := session.NewManager(session.Config{
		Strategy: session.StrategyDatabase,
		MaxAge:   time.Hour,
	}, session.WithStore(store), session.WithClock(func() time.Time { return *now }))
	require.NoError(t, err)
	return m
}

func jwtManager(t *testing.T, now *time.Time) *session.Manager {
	t.Helper()

	m, err := session.NewManager(session.Config{
		Strategy: session.StrategyJWT,
		MaxAge:   time.Hour,
		Secret:   "jwt-test-secret",
	}, session.WithClock(func() time.Time { return *now }))
	require.NoError(t, err)
	return m
}

func TestNewManager(t *testing.T) {
	t.Parallel()

	t.Run("jwt requires a secret", func(t *testing.T) {
		t.Parallel()

		_, err := session.NewManager(session.Config{Strategy: session.StrategyJWT, MaxAge: time.Hour})
		assert.ErrorIs(t, err, session.ErrMissingSecret)
	})

	t.Run("unknown strategy rejected", func(t *testing.T) {
		t.Parallel()

		_, err := session.NewManager(session.Config{Strategy: "cookie", MaxAge: time.Hour})
		assert.ErrorIs(t, err, session.ErrUnknownStrategy)
	})

	t.Run("database falls back to memory store", func(t *testing.T) {
		t.Parallel()

		m, err := session.NewManager(session.Config{Strategy: session.StrategyDatabase, MaxAge: time.Hour})
		require.NoError(t, err)

		_, err = m.Create(context.Background(), testProfile())
		assert.NoError(t, err)
	})
}

func TestManager_Database(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create then validate returns the identity", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		m := databaseManager(t, &now)
		profile := testProfile()

		sess, err := m.Create(ctx, profile)
		require.NoError(t, err)
		require.NotEmpty(t, sess.Token)
		assert.Equal(t, now.Add(time.Hour), sess.ExpiresAt)

		id, err := m.Validate(ctx, sess.Token)
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, profile.UserID, id.Session.UserID)
		assert.Equal(t, profile.Email, id.Profile.Email)
	})

	t.Run("validate slides the activity timestamp", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		m := databaseManager(t, &now)

		sess, err := m.Create(ctx, testProfile())
		require.NoError(t, err)

		now = now.Add(10 * time.Minute)
		id, err := m.Validate(ctx, sess.Token)
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, now, id.Session.UpdatedAt)
	})

	t.Run("expired session is absent", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		m := databaseManager(t, &now)

		sess, err := m.Create(ctx, testProfile())
		require.NoError(t, err)

		now = now.Add(2 * time.Hour)
		id, err := m.Get(ctx, sess.Token)
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("delete is idempotent true then false", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		m := databaseManager(t, &now)

		sess, err := m.Create(ctx, testProfile())
		require.NoError(t, err)

		revoked, err := m.Delete(ctx, sess.Token)
		require.NoError(t, err)
		assert.True(t, revoked)

		revoked, err = m.Delete(ctx, sess.Token)
		require.NoError(t, err)
		assert.False(t, revoked)

		id, err := m.Validate(ctx, sess.Token)
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("delete all for user counts removed sessions", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		m := databaseManager(t, &now)
		profile := testProfile()

		_, err := m.Create(ctx, profile)
		require.NoError(t, err)
		_, err = m.Create(ctx, profile)
		require.NoError(t, err)
		_, err = m.Create(ctx, testProfile())
		require.NoError(t, err)

		count, err := m.DeleteAllForUser(ctx, profile.UserID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("cleanup removes only expired sessions", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		m := databaseManager(t, &now)

		_, err := m.Create(ctx, testProfile())
		require.NoError(t, err)

		now = now.Add(30 * time.Minute)
		fresh, err := m.Create(ctx, testProfile())
		require.NoError(t, err)

		now = now.Add(45 * time.Minute)
		count, err := m.CleanupExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		id, err := m.Get(ctx, fresh.Token)
		require.NoError(t, err)
		assert.NotNil(t, id)
	})

	t.Run("empty token is absent", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		m := databaseManager(t, &now)

		id, err := m.Get(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, id)
	})
}

func TestManager_JWT(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create then get reconstructs from claims", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		m := jwtManager(t, &now)
		profile := testProfile()

		sess, err := m.Create(ctx, profile)
		require.NoError(t, err)
		require.NotEmpty(t, sess.ID)

		id, err := m.Get(ctx, sess.Token)
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, profile.UserID, id.Session.UserID)
		assert.Equal(t, profile.Email, id.Profile.Email)
		assert.True(t, id.Profile.EmailVerified)
		assert.Equal(t, now.Add(time.Hour).Unix(), id.Session.ExpiresAt.Unix())
	})

	t.Run("expired token is absent without error", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		m := jwtManager(t, &now)

		sess, err := m.Create(ctx, testProfile())
		require.NoError(t, err)

		now = now.Add(2 * time.Hour)
		id, err := m.Get(ctx, sess.Token)
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("tampered token is absent without error", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		m := jwtManager(t, &now)

		sess, err := m.Create(ctx, testProfile())
		require.NoError(t, err)

		id, err := m.Get(ctx, sess.Token+"x")
		require.NoError(t, err)
		assert.Nil(t, id)

		id, err = m.Get(ctx, "not-a-jwt")
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("token signed with another secret is absent", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		other, err := session.NewManager(session.Config{
			Strategy: session.StrategyJWT,
			MaxAge:   time.Hour,
			Secret:   "other-secret",
		}, session.WithClock(func() time.Time { return now }))
		require.NoError(t, err)

		sess, err := other.Create(ctx, testProfile())
		require.NoError(t, err)

		m := jwtManager(t, &now)
		id, err := m.Get(ctx, sess.Token)
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("mutating operations are honest no-ops", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		m := jwtManager(t, &now)
		profile := testProfile()

		sess, err := m.Create(ctx, profile)
		require.NoError(t, err)

		revoked, err := m.Delete(ctx, sess.Token)
		require.NoError(t, err)
		assert.False(t, revoked)

		count, err := m.DeleteAllForUser(ctx, profile.UserID)
		require.NoError(t, err)
		assert.Zero(t, count)

		count, err = m.CleanupExpired(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)

		// The token stays valid after Delete; jwt sessions cannot be revoked.
		id, err := m.Get(ctx, sess.Token)
		require.NoError(t, err)
		assert.NotNil(t, id)
	})

	t.Run("update is a plain read", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		m := jwtManager(t, &now)

		sess, err := m.Create(ctx, testProfile())
		require.NoError(t, err)

		got, err := m.Update(ctx, sess.Token)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, sess.Token, got.Token)
	})
}
