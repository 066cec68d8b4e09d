package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenClaims is the jwt-strategy payload. The registered subject carries the
// user ID; the rest mirrors Profile so sessions reconstruct without a store.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Picture       string `json:"picture,omitempty"`
}

type tokenSigner struct {
	secret []byte
	maxAge time.Duration
}

func newTokenSigner(secret string, maxAge time.Duration) *tokenSigner {
	return &tokenSigner{secret: []byte(secret), maxAge: maxAge}
}

// mint signs a token embedding the profile, valid from now for maxAge.
func (s *tokenSigner) mint(profile Profile, now time.Time) (string, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.maxAge)),
		},
		Email:         profile.Email,
		Name:          profile.Name,
		EmailVerified: profile.EmailVerified,
		Picture:       profile.Image,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// verify parses and validates a token. Expired, malformed, or badly signed
// tokens return (nil, nil) so callers treat them as "no session"; anything
// else is a real error.
func (s *tokenSigner) verify(token string, now time.Time) (*Identity, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }), jwt.WithExpirationRequired())

	switch {
	case err == nil && parsed.Valid:
	case errors.Is(err, jwt.ErrTokenExpired),
		errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, nil
	default:
		return nil, fmt.Errorf("verify session token: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || claims.IssuedAt == nil {
		return nil, nil
	}

	return &Identity{
		Session: Session{
			ID:        claims.Subject,
			UserID:    userID,
			Token:     token,
			ExpiresAt: claims.ExpiresAt.Time,
			CreatedAt: claims.IssuedAt.Time,
			UpdatedAt: claims.IssuedAt.Time,
		},
		Profile: Profile{
			UserID:        userID,
			Email:         claims.Email,
			Name:          claims.Name,
			EmailVerified: claims.EmailVerified,
			Image:         claims.Picture,
		},
	}, nil
}
