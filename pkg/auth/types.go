package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/session"
)

// User is an authenticated principal.
type User struct {
	ID            uuid.UUID
	Email         string
	Name          string
	EmailVerified bool
	Image         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SessionProfile converts the user into the snapshot sessions carry.
func (u *User) SessionProfile() session.Profile {
	return session.Profile{
		UserID:        u.ID,
		Email:         u.Email,
		Name:          u.Name,
		EmailVerified: u.EmailVerified,
		Image:         u.Image,
	}
}

// Account links a user to one external OAuth provider identity.
// (Provider, ProviderAccountID) identifies at most one account.
type Account struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Provider          string
	ProviderAccountID string
	AccessToken       string
	RefreshToken      string
	ExpiresAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Verification token types.
const (
	TokenTypePasswordReset = "password_reset"
)

// VerificationToken is a one-shot typed token keyed by (identifier, token).
// It is deleted on consumption and unusable past expiry.
type VerificationToken struct {
	Identifier string
	Token      string
	Type       string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// SignUpResult reports the outcome of a registration attempt.
type SignUpResult struct {
	Success              bool
	User                 *User
	RequiresVerification bool
	Message              string
}

// SignInResult reports the outcome of a credential check. On failure Message
// carries the single generic string shown to end users.
type SignInResult struct {
	Success bool
	User    *User
	Message string
}

// ProviderProfile is a normalized OAuth user profile.
type ProviderProfile struct {
	ProviderAccountID string
	Email             string
	Name              string
	Image             string
	EmailVerified     bool
}

// ProviderTokens carries the credentials returned by a code exchange.
type ProviderTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
}
