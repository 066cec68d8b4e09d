package guard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/guard"
)

func TestGuard_Allow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := guard.Config{
		RateLimit: guard.RateLimitConfig{
			MaxAttempts:   3,
			Window:        15 * time.Minute,
			BlockDuration: 30 * time.Minute,
		},
		Password:      guard.DefaultPasswordPolicy(),
		CSRFMaxAge:    time.Hour,
		EventCapacity: 100,
	}

	t.Run("denies after max attempts with typed error", func(t *testing.T) {
		t.Parallel()

		g := guard.New("secret", guard.WithConfig(cfg))
		t.Cleanup(func() { _ = g.Close() })

		for i := 0; i < 3; i++ {
			res, err := g.Allow(ctx, guard.ActionSignIn, "1.2.3.4")
			require.NoError(t, err)
			assert.True(t, res.Allowed)
		}

		res, err := g.Allow(ctx, guard.ActionSignIn, "1.2.3.4")
		require.ErrorIs(t, err, guard.ErrRateLimitExceeded)
		require.NotNil(t, res)
		assert.False(t, res.Allowed)

		// The denial is recorded as a violation.
		events := g.Events(1)
		require.Len(t, events, 1)
		assert.Equal(t, guard.EventViolation, events[0].Type)
	})

	t.Run("actions rate limit independently", func(t *testing.T) {
		t.Parallel()

		g := guard.New("secret", guard.WithConfig(cfg))
		t.Cleanup(func() { _ = g.Close() })

		for i := 0; i < 3; i++ {
			_, err := g.Allow(ctx, guard.ActionSignIn, "1.2.3.4")
			require.NoError(t, err)
		}

		_, err := g.Allow(ctx, guard.ActionSignUp, "1.2.3.4")
		assert.NoError(t, err)
	})

	t.Run("success resets the window", func(t *testing.T) {
		t.Parallel()

		g := guard.New("secret", guard.WithConfig(cfg))
		t.Cleanup(func() { _ = g.Close() })

		for i := 0; i < 3; i++ {
			_, err := g.Allow(ctx, guard.ActionSignIn, "1.2.3.4")
			require.NoError(t, err)
		}
		require.NoError(t, g.RecordSuccess(ctx, guard.ActionSignIn, "1.2.3.4"))

		res, err := g.Allow(ctx, guard.ActionSignIn, "1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, 2, res.Remaining)
	})
}

func TestGuard_CSRF(t *testing.T) {
	t.Parallel()

	g := guard.New("secret")
	t.Cleanup(func() { _ = g.Close() })

	token := g.IssueCSRF("sess-1")
	assert.NoError(t, g.ValidateCSRF(token, "sess-1"))
	assert.ErrorIs(t, g.ValidateCSRF(token, "sess-2"), guard.ErrCSRFTokenInvalid)
	assert.ErrorIs(t, g.ValidateCSRF("", "sess-1"), guard.ErrCSRFTokenMissing)
}

func TestGuard_Suspicious(t *testing.T) {
	t.Parallel()

	g := guard.New("secret")
	t.Cleanup(func() { _ = g.Close() })

	assert.False(t, g.Suspicious("1.2.3.4"))

	for i := 0; i < 3; i++ {
		g.RecordFailure(guard.ActionSignIn, "1.2.3.4")
	}
	assert.True(t, g.Suspicious("1.2.3.4"))

	// Advisory only: the identifier is still allowed through the limiter.
	_, err := g.Allow(context.Background(), guard.ActionSignIn, "1.2.3.4")
	assert.NoError(t, err)
}

func TestGuard_CheckPassword(t *testing.T) {
	t.Parallel()

	g := guard.New("secret")
	t.Cleanup(func() { _ = g.Close() })

	assert.True(t, g.CheckPassword("P@ssw0rd!", guard.UserInfo{}).Valid)
	assert.False(t, g.CheckPassword("weak", guard.UserInfo{}).Valid)
}
