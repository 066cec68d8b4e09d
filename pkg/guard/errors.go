package guard

// Error is a security-policy violation carrying a stable machine code.
// Codes are part of the wire contract with transport adapters and must not
// change between releases.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	// ErrRateLimitExceeded is returned when an identifier exhausted its
	// attempts for the current window or is hard-blocked.
	ErrRateLimitExceeded = &Error{Code: "RATE_LIMIT_EXCEEDED", Message: "too many attempts, try again later"}

	// ErrCSRFTokenMissing is returned when a state-changing action arrives
	// without a CSRF token.
	ErrCSRFTokenMissing = &Error{Code: "CSRF_TOKEN_MISSING", Message: "missing CSRF token"}

	// ErrCSRFTokenInvalid is returned when a CSRF token fails validation for
	// any reason: malformed, wrong session, expired, or bad signature.
	ErrCSRFTokenInvalid = &Error{Code: "CSRF_TOKEN_INVALID", Message: "invalid CSRF token"}

	// ErrWeakPassword is returned when a password fails the configured policy.
	ErrWeakPassword = &Error{Code: "WEAK_PASSWORD", Message: "password does not meet security requirements"}
)
