package auth

import "errors"

// Error is an authentication failure carrying a stable machine code for
// transport adapters. Codes are part of the wire contract.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches errors by machine code so wrapped instances with customized
// messages still compare equal to the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	// ErrTokenExpired is returned for expired verification tokens.
	ErrTokenExpired = &Error{Code: "TOKEN_EXPIRED", Message: "token has expired"}

	// ErrTokenInvalid is returned for unknown, mismatched, or consumed tokens.
	ErrTokenInvalid = &Error{Code: "INVALID_TOKEN", Message: "invalid token"}

	// ErrProviderNotConfigured is returned when an OAuth provider is unknown
	// or missing credentials.
	ErrProviderNotConfigured = &Error{Code: "PROVIDER_NOT_CONFIGURED", Message: "authentication provider is not configured"}

	// ErrWeakPassword is returned when a password fails the security policy.
	ErrWeakPassword = &Error{Code: "WEAK_PASSWORD", Message: "password does not meet security requirements"}

	// ErrPasswordAuthDisabled is returned when password authentication is
	// switched off by configuration.
	ErrPasswordAuthDisabled = &Error{Code: "PASSWORD_AUTH_DISABLED", Message: "password authentication is disabled"}
)

var (
	// ErrUserNotFound is returned by stores when no user matches.
	ErrUserNotFound = errors.New("auth: user not found")

	// ErrAccountNotFound is returned by stores when no provider account matches.
	ErrAccountNotFound = errors.New("auth: account not found")

	// ErrVerificationTokenNotFound is returned by stores when no token matches.
	ErrVerificationTokenNotFound = errors.New("auth: verification token not found")

	// ErrPasswordHashNotFound is returned by stores for users without a
	// password credential, e.g. OAuth-only accounts.
	ErrPasswordHashNotFound = errors.New("auth: password hash not found")

	// ErrEmailAlreadyExists is returned on sign-up when the email is taken.
	ErrEmailAlreadyExists = errors.New("auth: an account with this email already exists")

	// ErrInvalidEmail is returned for syntactically invalid email addresses.
	ErrInvalidEmail = errors.New("auth: invalid email address")

	// ErrInvalidCredentials covers wrong old-password on password change.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidCode is returned by adapters when the authorization code
	// exchange is rejected by the provider.
	ErrInvalidCode = errors.New("auth: invalid authorization code")

	// ErrMissingEmail is returned when a provider profile has no email;
	// an email is required to resolve or create a user.
	ErrMissingEmail = errors.New("auth: provider profile has no email")

	// ErrStateMismatch is returned when the OAuth callback state does not
	// match the issued value.
	ErrStateMismatch = errors.New("auth: oauth state mismatch")

	// ErrProviderEmailInUse is returned when a callback email belongs to an
	// existing user and email linking is not enabled.
	ErrProviderEmailInUse = errors.New("auth: email already registered with a different sign-in method")
)
