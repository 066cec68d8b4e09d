package guard

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// DefaultCSRFMaxAge is how long an issued CSRF token stays valid.
const DefaultCSRFMaxAge = time.Hour

// CSRF issues and validates stateless anti-forgery tokens bound to a session.
//
// Wire format: base64url of "sessionID:unixMillis:hexSignature" where the
// signature is HMAC-SHA256 over "sessionID:unixMillis". Tokens are
// deterministic for a given (sessionID, timestamp) and need no server-side
// state.
type CSRF struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewCSRF creates a token codec with the given signing secret.
func NewCSRF(secret string, maxAge time.Duration) *CSRF {
	if maxAge <= 0 {
		maxAge = DefaultCSRFMaxAge
	}
	return &CSRF{
		secret: []byte(secret),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Issue creates a token bound to sessionID.
func (c *CSRF) Issue(sessionID string) string {
	millis := strconv.FormatInt(c.now().UnixMilli(), 10)
	payload := sessionID + ":" + millis
	token := payload + ":" + c.sign(payload)
	return base64.RawURLEncoding.EncodeToString([]byte(token))
}

// Validate checks a token against the session it claims to protect.
// It fails closed: any malformation, session mismatch, expiry, or signature
// mismatch yields ErrCSRFTokenInvalid; an empty token yields
// ErrCSRFTokenMissing.
func (c *CSRF) Validate(token, sessionID string) error {
	if token == "" {
		return ErrCSRFTokenMissing
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return ErrCSRFTokenInvalid
	}

	fields := strings.Split(string(raw), ":")
	if len(fields) != 3 {
		return ErrCSRFTokenInvalid
	}

	if fields[0] != sessionID {
		return ErrCSRFTokenInvalid
	}

	millis, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return ErrCSRFTokenInvalid
	}
	age := c.now().Sub(time.UnixMilli(millis))
	if age < 0 || age > c.maxAge {
		return ErrCSRFTokenInvalid
	}

	expected := c.sign(fields[0] + ":" + fields[1])
	// Lengths differ only for malformed tokens; length is not
	// secret-dependent, so the early return is safe. Equal-length compare is
	// constant-time via hmac.Equal.
	if len(fields[2]) != len(expected) {
		return ErrCSRFTokenInvalid
	}
	if !hmac.Equal([]byte(fields[2]), []byte(expected)) {
		return ErrCSRFTokenInvalid
	}

	return nil
}

func (c *CSRF) sign(payload string) string {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}
