package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/session"
)

func cookieManager(t *testing.T, secure bool) *session.Manager {
	t.Helper()

	m, err := session.NewManager(session.Config{
		Strategy:      session.StrategyDatabase,
		MaxAge:        time.Hour,
		CookieName:    "session_token",
		SecureCookies: secure,
	})
	require.NoError(t, err)
	return m
}

func TestManager_SessionCookie(t *testing.T) {
	t.Parallel()

	m := cookieManager(t, true)
	c := m.SessionCookie("tok-123")

	assert.Equal(t, "session_token", c.Name)
	assert.Equal(t, "tok-123", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Contains(t, c.String(), "SameSite=Lax")
}

func TestManager_SessionCookie_Insecure(t *testing.T) {
	t.Parallel()

	c := cookieManager(t, false).SessionCookie("tok")
	assert.False(t, c.Secure)
}

func TestManager_LogoutCookie(t *testing.T) {
	t.Parallel()

	c := cookieManager(t, true).LogoutCookie()

	assert.Equal(t, "session_token", c.Name)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
	assert.Contains(t, c.String(), "Max-Age=0")
}

func TestManager_TokenFromCookieHeader(t *testing.T) {
	t.Parallel()

	m := cookieManager(t, true)

	assert.Equal(t, "abc123", m.TokenFromCookieHeader("session_token=abc123"))
	assert.Equal(t, "abc123", m.TokenFromCookieHeader("other=1; session_token=abc123; theme=dark"))
	assert.Empty(t, m.TokenFromCookieHeader("other=1; theme=dark"))
	assert.Empty(t, m.TokenFromCookieHeader(""))
}

func TestParseCookies(t *testing.T) {
	t.Parallel()

	t.Run("splits pairs and trims whitespace", func(t *testing.T) {
		t.Parallel()

		got := session.ParseCookies("a=1; b=2 ;c=3")
		assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, got)
	})

	t.Run("serialized cookie round trips", func(t *testing.T) {
		t.Parallel()

		m := cookieManager(t, true)
		c := m.SessionCookie("tok-value")

		got := session.ParseCookies(c.Name + "=" + c.Value)
		assert.Equal(t, "tok-value", got[c.Name])
	})

	t.Run("url-encoded values are decoded", func(t *testing.T) {
		t.Parallel()

		got := session.ParseCookies("name=hello%20world")
		assert.Equal(t, "hello world", got["name"])
	})

	t.Run("malformed segments skipped", func(t *testing.T) {
		t.Parallel()

		got := session.ParseCookies("novalue; a=1")
		assert.Equal(t, map[string]string{"a": "1"}, got)
	})
}
