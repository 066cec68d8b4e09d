package guard_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/authkit/pkg/guard"
)

func TestPasswordPolicy_Check(t *testing.T) {
	t.Parallel()

	policy := guard.DefaultPasswordPolicy()
	nobody := guard.UserInfo{}

	t.Run("strong password passes", func(t *testing.T) {
		t.Parallel()

		res := policy.Check("P@ssw0rd!", nobody)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)
		assert.Equal(t, 84, res.Score)
	})

	t.Run("common password fails with heavy penalty", func(t *testing.T) {
		t.Parallel()

		res := policy.Check("password", nobody)
		assert.False(t, res.Valid)
		assert.Len(t, res.Errors, 4)
		assert.Equal(t, 11, res.Score)
	})

	t.Run("too short", func(t *testing.T) {
		t.Parallel()

		res := policy.Check("Ab1!", nobody)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors[0], "at least 8 characters")
	})

	t.Run("too long", func(t *testing.T) {
		t.Parallel()

		res := policy.Check("Aa1!"+strings.Repeat("x", 130), nobody)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors[0], "at most 128 characters")
	})

	t.Run("missing character classes reported individually", func(t *testing.T) {
		t.Parallel()

		res := policy.Check("lowercaseonly", nobody)
		assert.False(t, res.Valid)
		assert.Len(t, res.Errors, 3)
	})

	t.Run("contains email local part", func(t *testing.T) {
		t.Parallel()

		user := guard.UserInfo{Email: "alice@example.com"}
		res := policy.Check("Alice#2024ok", user)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors[0], "must not contain")
	})

	t.Run("contains name case-insensitively", func(t *testing.T) {
		t.Parallel()

		user := guard.UserInfo{Name: "Bob Smith"}
		res := policy.Check("xBOB smithX9!", user)
		assert.False(t, res.Valid)
	})

	t.Run("short user info is ignored", func(t *testing.T) {
		t.Parallel()

		// Two-character fragments would match almost anything.
		user := guard.UserInfo{Email: "ab@example.com", Name: "Al"}
		res := policy.Check("Str0ng&Secure", user)
		assert.True(t, res.Valid)
	})

	t.Run("repeated runs lower the score", func(t *testing.T) {
		t.Parallel()

		plain := policy.Check("Xk4!mqzvtw", nobody)
		runs := policy.Check("Xk4!mqzzzw", nobody)
		assert.Less(t, runs.Score, plain.Score)
	})

	t.Run("score clamped to bounds", func(t *testing.T) {
		t.Parallel()

		res := policy.Check("password", nobody)
		assert.GreaterOrEqual(t, res.Score, 0)

		res = policy.Check("V3ry&L0ng#Unique$Passphrase!2024", nobody)
		assert.LessOrEqual(t, res.Score, 100)
	})

	t.Run("relaxed policy accepts simpler passwords", func(t *testing.T) {
		t.Parallel()

		relaxed := guard.PasswordPolicy{MinLength: 6, MaxLength: 128}
		res := relaxed.Check("simplepw", nobody)
		assert.True(t, res.Valid)
	})
}
