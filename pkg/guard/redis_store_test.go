package guard_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/guard"
)

func redisStore(t *testing.T) *guard.RedisRateLimitStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return guard.NewRedisRateLimitStore(client, "test")
}

func TestRedisRateLimitStore_Hit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testRateLimitConfig()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first hit opens a window", func(t *testing.T) {
		t.Parallel()

		store := redisStore(t)
		res, err := store.Hit(ctx, "sign-in:1.2.3.4", base, cfg)
		require.NoError(t, err)

		assert.True(t, res.Allowed)
		assert.Equal(t, 4, res.Remaining)
		assert.Equal(t, base.Add(cfg.Window).UnixMilli(), res.ResetAt.UnixMilli())
	})

	t.Run("exceeding max attempts blocks and extends the deadline", func(t *testing.T) {
		t.Parallel()

		store := redisStore(t)
		key := "sign-in:1.2.3.4"

		for i := 0; i < cfg.MaxAttempts; i++ {
			res, err := store.Hit(ctx, key, base, cfg)
			require.NoError(t, err)
			assert.True(t, res.Allowed)
		}

		res, err := store.Hit(ctx, key, base.Add(time.Minute), cfg)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, base.Add(cfg.Window).Add(cfg.BlockDuration).UnixMilli(), res.ResetAt.UnixMilli())

		// Still denied past the original window.
		res, err = store.Hit(ctx, key, base.Add(cfg.Window).Add(time.Minute), cfg)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
	})

	t.Run("elapsed deadline restarts at count one", func(t *testing.T) {
		t.Parallel()

		store := redisStore(t)
		key := "sign-in:1.2.3.4"

		for i := 0; i < cfg.MaxAttempts+1; i++ {
			_, err := store.Hit(ctx, key, base, cfg)
			require.NoError(t, err)
		}

		after := base.Add(cfg.Window).Add(cfg.BlockDuration).Add(time.Second)
		res, err := store.Hit(ctx, key, after, cfg)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, cfg.MaxAttempts-1, res.Remaining)
	})
}

func TestRedisRateLimitStore_Reset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testRateLimitConfig()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	store := redisStore(t)
	key := "sign-in:1.2.3.4"

	for i := 0; i < cfg.MaxAttempts+1; i++ {
		_, err := store.Hit(ctx, key, base, cfg)
		require.NoError(t, err)
	}
	require.NoError(t, store.Reset(ctx, key))

	res, err := store.Hit(ctx, key, base, cfg)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, cfg.MaxAttempts-1, res.Remaining)
}
