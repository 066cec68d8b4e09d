package guard_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/guard"
)

// forgeToken builds a token in the documented wire format with an arbitrary
// timestamp, signed with the given secret.
func forgeToken(secret, sessionID string, issuedAt time.Time) string {
	millis := strconv.FormatInt(issuedAt.UnixMilli(), 10)
	payload := sessionID + ":" + millis
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	sig := hex.EncodeToString(h.Sum(nil))
	return base64.RawURLEncoding.EncodeToString([]byte(payload + ":" + sig))
}

func TestCSRF_IssueValidate(t *testing.T) {
	t.Parallel()

	const secret = "csrf-test-secret"

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		c := guard.NewCSRF(secret, time.Hour)
		token := c.Issue("sess-123")
		require.NotEmpty(t, token)

		assert.NoError(t, c.Validate(token, "sess-123"))
	})

	t.Run("empty token is missing", func(t *testing.T) {
		t.Parallel()

		c := guard.NewCSRF(secret, time.Hour)
		err := c.Validate("", "sess-123")
		assert.ErrorIs(t, err, guard.ErrCSRFTokenMissing)
	})

	t.Run("session mismatch", func(t *testing.T) {
		t.Parallel()

		c := guard.NewCSRF(secret, time.Hour)
		token := c.Issue("sess-123")

		err := c.Validate(token, "sess-456")
		assert.ErrorIs(t, err, guard.ErrCSRFTokenInvalid)
	})

	t.Run("not base64", func(t *testing.T) {
		t.Parallel()

		c := guard.NewCSRF(secret, time.Hour)
		err := c.Validate("!!not-base64!!", "sess-123")
		assert.ErrorIs(t, err, guard.ErrCSRFTokenInvalid)
	})

	t.Run("wrong field count", func(t *testing.T) {
		t.Parallel()

		c := guard.NewCSRF(secret, time.Hour)
		raw := base64.RawURLEncoding.EncodeToString([]byte("sess-123:12345"))

		err := c.Validate(raw, "sess-123")
		assert.ErrorIs(t, err, guard.ErrCSRFTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		c := guard.NewCSRF(secret, time.Hour)
		token := forgeToken(secret, "sess-123", time.Now().Add(-2*time.Hour))

		err := c.Validate(token, "sess-123")
		assert.ErrorIs(t, err, guard.ErrCSRFTokenInvalid)
	})

	t.Run("future-dated token", func(t *testing.T) {
		t.Parallel()

		c := guard.NewCSRF(secret, time.Hour)
		token := forgeToken(secret, "sess-123", time.Now().Add(time.Hour))

		err := c.Validate(token, "sess-123")
		assert.ErrorIs(t, err, guard.ErrCSRFTokenInvalid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		c := guard.NewCSRF(secret, time.Hour)
		token := forgeToken("other-secret", "sess-123", time.Now())

		err := c.Validate(token, "sess-123")
		assert.ErrorIs(t, err, guard.ErrCSRFTokenInvalid)
	})

	t.Run("tampered signature", func(t *testing.T) {
		t.Parallel()

		c := guard.NewCSRF(secret, time.Hour)
		millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
		tampered := base64.RawURLEncoding.EncodeToString([]byte("sess-123:" + millis + ":deadbeef"))

		err := c.Validate(tampered, "sess-123")
		assert.ErrorIs(t, err, guard.ErrCSRFTokenInvalid)
	})

	t.Run("tokens are deterministic per timestamp", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		assert.Equal(t,
			forgeToken(secret, "sess-123", now),
			forgeToken(secret, "sess-123", now),
		)
	})
}
