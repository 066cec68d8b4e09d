package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/authkit/pkg/guard"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/sanitizer"
)

// invalidCredentialsMessage is the single string returned for every sign-in
// failure so the reason stays indistinguishable to callers.
const invalidCredentialsMessage = "Invalid email or password"

// DefaultResetTokenTTL bounds the lifetime of password reset tokens.
const DefaultResetTokenTTL = 15 * time.Minute

// PasswordService authenticates users against the credential store using
// bcrypt password hashes.
type PasswordService struct {
	store         Store
	policy        guard.PasswordPolicy
	bcryptCost    int
	resetTokenTTL time.Duration
	log           *slog.Logger
	now           func() time.Time
}

// PasswordOption configures a PasswordService.
type PasswordOption func(*PasswordService)

// WithPasswordPolicy replaces the default password policy.
func WithPasswordPolicy(policy guard.PasswordPolicy) PasswordOption {
	return func(s *PasswordService) { s.policy = policy }
}

// WithBcryptCost sets the bcrypt cost for new hashes.
func WithBcryptCost(cost int) PasswordOption {
	return func(s *PasswordService) { s.bcryptCost = cost }
}

// WithResetTokenTTL sets the reset-token lifetime.
func WithResetTokenTTL(ttl time.Duration) PasswordOption {
	return func(s *PasswordService) { s.resetTokenTTL = ttl }
}

// WithPasswordLogger sets the service logger.
func WithPasswordLogger(log *slog.Logger) PasswordOption {
	return func(s *PasswordService) { s.log = log }
}

// WithPasswordClock overrides the time source. Intended for tests.
func WithPasswordClock(now func() time.Time) PasswordOption {
	return func(s *PasswordService) { s.now = now }
}

// NewPasswordService creates a password authenticator over the store.
func NewPasswordService(store Store, opts ...PasswordOption) *PasswordService {
	s := &PasswordService{
		store:         store,
		policy:        guard.DefaultPasswordPolicy(),
		bcryptCost:    bcrypt.DefaultCost,
		resetTokenTTL: DefaultResetTokenTTL,
		log:           logger.Discard(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp registers a new user. Invalid input is rejected before any store
// access; a taken email yields ErrEmailAlreadyExists with no further detail.
func (s *PasswordService) SignUp(ctx context.Context, email, password, name string) (*SignUpResult, error) {
	email = sanitizer.NormalizeEmail(email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}

	if strength := s.policy.Check(password, guard.UserInfo{Email: email, Name: name}); !strength.Valid {
		return nil, weakPasswordError(strength)
	}

	_, err := s.store.FindUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &User{
		ID:            uuid.New(),
		Email:         email,
		Name:          strings.TrimSpace(name),
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.InsertUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.store.SetPasswordHash(ctx, user.ID, hash); err != nil {
		return nil, fmt.Errorf("save password: %w", err)
	}

	return &SignUpResult{
		Success:              true,
		User:                 user,
		RequiresVerification: !user.EmailVerified,
	}, nil
}

// SignIn verifies credentials. Every failure path returns the same generic
// message; only store breakage surfaces as an error.
func (s *PasswordService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = sanitizer.NormalizeEmail(email)

	failure := &SignInResult{Success: false, Message: invalidCredentialsMessage}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return failure, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := s.store.GetPasswordHash(ctx, user.ID)
	if err != nil {
		if errors.Is(err, ErrPasswordHashNotFound) {
			// OAuth-only account; indistinguishable from a bad password.
			return failure, nil
		}
		return nil, fmt.Errorf("load password hash: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return failure, nil
	}

	return &SignInResult{Success: true, User: user}, nil
}

// UpdatePassword changes a user's password after verifying the current one.
// Failures are typed errors, unlike SignIn's soft result.
func (s *PasswordService) UpdatePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if strength := s.policy.Check(newPassword, guard.UserInfo{Email: user.Email, Name: user.Name}); !strength.Valid {
		return weakPasswordError(strength)
	}

	hash, err := s.store.GetPasswordHash(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrPasswordHashNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("load password hash: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.SetPasswordHash(ctx, userID, newHash); err != nil {
		return fmt.Errorf("save password: %w", err)
	}
	return nil
}

// PasswordResetRequest carries a freshly issued reset token. The token is
// returned to the caller for delivery; it is never logged.
type PasswordResetRequest struct {
	Email     string
	Token     string
	ExpiresAt time.Time
}

// GeneratePasswordResetToken issues a one-shot reset token. Unknown emails
// return (nil, nil) so callers can answer uniformly and reveal nothing.
func (s *PasswordService) GeneratePasswordResetToken(ctx context.Context, email string) (*PasswordResetRequest, error) {
	email = sanitizer.NormalizeEmail(email)

	_, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	token, err := generateResetToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	vt := VerificationToken{
		Identifier: email,
		Token:      token,
		Type:       TokenTypePasswordReset,
		ExpiresAt:  now.Add(s.resetTokenTTL),
		CreatedAt:  now,
	}
	if err := s.store.InsertVerificationToken(ctx, vt); err != nil {
		return nil, fmt.Errorf("store reset token: %w", err)
	}

	return &PasswordResetRequest{Email: email, Token: token, ExpiresAt: vt.ExpiresAt}, nil
}

// ResetPassword consumes a reset token and sets the new password. Unknown,
// mismatched, or expired tokens report false without detail; the token is
// deleted on success so it cannot replay.
func (s *PasswordService) ResetPassword(ctx context.Context, email, newPassword, token string) (bool, error) {
	email = sanitizer.NormalizeEmail(email)

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find user: %w", err)
	}

	if strength := s.policy.Check(newPassword, guard.UserInfo{Email: user.Email, Name: user.Name}); !strength.Valid {
		return false, weakPasswordError(strength)
	}

	vt, err := s.store.FindVerificationToken(ctx, email, token)
	if err != nil {
		if errors.Is(err, ErrVerificationTokenNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find reset token: %w", err)
	}
	if vt.Type != TokenTypePasswordReset || !vt.ExpiresAt.After(s.now()) {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.SetPasswordHash(ctx, user.ID, hash); err != nil {
		return false, fmt.Errorf("save password: %w", err)
	}

	if err := s.store.DeleteVerificationToken(ctx, email, token); err != nil {
		s.log.Error("failed to delete consumed reset token",
			logger.UserID(user.ID.String()),
			logger.Error(err),
			logger.Component("password"),
		)
	}

	return true, nil
}

// CleanupExpiredTokens deletes lapsed verification tokens, returning the count.
func (s *PasswordService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredVerificationTokens(ctx, s.now())
}

func weakPasswordError(strength guard.PasswordStrength) error {
	return &Error{Code: ErrWeakPassword.Code, Message: strings.Join(strength.Errors, "; ")}
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	// Require a dotted domain; ParseAddress accepts bare hosts.
	at := strings.LastIndex(email, "@")
	return strings.Contains(email[at+1:], ".")
}

func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
