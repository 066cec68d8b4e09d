package session

import (
	"net/http"
	"net/url"
	"strings"
)

// SessionCookie serializes the token into the session cookie: HttpOnly,
// SameSite=Lax, Path=/, Secure per configuration.
func (m *Manager) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   m.cfg.CookieDomain,
		MaxAge:   int(m.cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// LogoutCookie returns a cookie that clears the session: same name, empty
// value, immediate expiry.
func (m *Manager) LogoutCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   m.cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// TokenFromCookieHeader extracts the session token from a raw Cookie header.
// Returns "" when the cookie is absent.
func (m *Manager) TokenFromCookieHeader(header string) string {
	return ParseCookies(header)[m.cfg.CookieName]
}

// ParseCookies parses a ";"-delimited Cookie header into name/value pairs.
// Values are URL-decoded; undecodable values are kept raw.
func ParseCookies(header string) map[string]string {
	cookies := make(map[string]string)
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		cookies[strings.TrimSpace(name)] = value
	}
	return cookies
}
