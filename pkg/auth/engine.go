package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/guard"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/session"
)

// genericSignInFailure is what OAuth callback failures collapse to; the
// underlying cause goes to server-side logs only.
const genericSignInFailure = "Authentication failed"

// Observer is a best-effort lifecycle callback invoked after the state
// transition commits. Errors and panics are logged and never fail the
// triggering operation.
type Observer func(ctx context.Context, user *User) error

// Pinger is implemented by stores that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SignUpOutcome is the engine-level registration result: the service result
// plus the session opened for the new user.
type SignUpOutcome struct {
	Success              bool
	User                 *User
	RequiresVerification bool
	Session              *session.Session
	Message              string
}

// SignInOutcome is the engine-level sign-in result. Failure keeps User and
// Session nil and carries a user-safe Message.
type SignInOutcome struct {
	Success bool
	User    *User
	Session *session.Session
	Message string
}

// Engine is the single API surface transport adapters consume. It wires the
// security gate, the password and OAuth services, and the session manager,
// and enforces feature flags: a nil password service disables password
// authentication, a nil OAuth service disables providers.
type Engine struct {
	guard    *guard.Guard
	sessions *session.Manager
	password *PasswordService
	oauth    *OAuthService
	log      *slog.Logger

	onSignUp  []Observer
	onSignIn  []Observer
	onSignOut []Observer
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithGuard attaches the security gate. Without one, rate limiting and CSRF
// checks are skipped; intended only for tests.
func WithGuard(g *guard.Guard) EngineOption {
	return func(e *Engine) { e.guard = g }
}

// WithPasswordService enables password authentication.
func WithPasswordService(s *PasswordService) EngineOption {
	return func(e *Engine) { e.password = s }
}

// WithOAuthService enables OAuth authentication.
func WithOAuthService(s *OAuthService) EngineOption {
	return func(e *Engine) { e.oauth = s }
}

// WithEngineLogger sets the engine logger.
func WithEngineLogger(log *slog.Logger) EngineOption {
	return func(e *Engine) { e.log = log }
}

// OnSignUp registers a post-registration observer.
func OnSignUp(fn Observer) EngineOption {
	return func(e *Engine) { e.onSignUp = append(e.onSignUp, fn) }
}

// OnSignIn registers a post-sign-in observer.
func OnSignIn(fn Observer) EngineOption {
	return func(e *Engine) { e.onSignIn = append(e.onSignIn, fn) }
}

// OnSignOut registers a post-sign-out observer.
func OnSignOut(fn Observer) EngineOption {
	return func(e *Engine) { e.onSignOut = append(e.onSignOut, fn) }
}

// NewEngine builds an engine around the session manager.
func NewEngine(sessions *session.Manager, opts ...EngineOption) *Engine {
	e := &Engine{
		sessions: sessions,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SignUpWithPassword registers a user and opens a session. The ip feeds the
// sign-up rate limit.
func (e *Engine) SignUpWithPassword(ctx context.Context, email, password, name, ip string) (*SignUpOutcome, error) {
	if e.password == nil {
		return nil, ErrPasswordAuthDisabled
	}
	if err := e.allow(ctx, guard.ActionSignUp, ip); err != nil {
		return nil, err
	}

	result, err := e.password.SignUp(ctx, email, password, name)
	if err != nil {
		return nil, err
	}

	sess, err := e.sessions.Create(ctx, result.User.SessionProfile())
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	e.recordSuccess(ctx, guard.ActionSignUp, ip)
	e.notify(ctx, e.onSignUp, result.User, "sign-up")

	return &SignUpOutcome{
		Success:              true,
		User:                 result.User,
		RequiresVerification: result.RequiresVerification,
		Session:              sess,
	}, nil
}

// SignInWithPassword checks credentials and opens a session on success.
// Credential failures come back as a soft outcome, not an error.
func (e *Engine) SignInWithPassword(ctx context.Context, email, password, ip string) (*SignInOutcome, error) {
	if e.password == nil {
		return nil, ErrPasswordAuthDisabled
	}
	if err := e.allow(ctx, guard.ActionSignIn, ip); err != nil {
		return nil, err
	}

	result, err := e.password.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		e.recordFailure(guard.ActionSignIn, ip)
		return &SignInOutcome{Success: false, Message: result.Message}, nil
	}

	sess, err := e.sessions.Create(ctx, result.User.SessionProfile())
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	e.recordSuccess(ctx, guard.ActionSignIn, ip)
	e.notify(ctx, e.onSignIn, result.User, "sign-in")

	return &SignInOutcome{Success: true, User: result.User, Session: sess}, nil
}

// OAuthAuthorizationURL returns the provider redirect URL and the state the
// caller must persist and later hand to HandleOAuthCallback.
func (e *Engine) OAuthAuthorizationURL(providerID, redirectURI string) (url, state string, err error) {
	if e.oauth == nil {
		return "", "", ErrProviderNotConfigured
	}
	state, err = GenerateState()
	if err != nil {
		return "", "", err
	}
	url, err = e.oauth.AuthorizationURL(providerID, redirectURI, state)
	if err != nil {
		return "", "", err
	}
	return url, state, nil
}

// HandleOAuthCallback verifies state, resolves the callback to a user, and
// opens a session. Flow failures (state mismatch, bad code, missing or taken
// email) collapse to one generic failure outcome; infrastructure errors
// propagate.
func (e *Engine) HandleOAuthCallback(ctx context.Context, providerID, code, redirectURI, issuedState, receivedState, ip string) (*SignInOutcome, error) {
	if e.oauth == nil || !e.oauth.Configured(providerID) {
		return nil, ErrProviderNotConfigured
	}
	if err := e.allow(ctx, guard.ActionOAuthCallback, ip); err != nil {
		return nil, err
	}

	// State must match before any network call.
	if err := VerifyState(issuedState, receivedState); err != nil {
		return e.oauthFailure(providerID, ip, err), nil
	}

	user, err := e.oauth.HandleCallback(ctx, providerID, code, redirectURI)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) || errors.Is(err, ErrMissingEmail) || errors.Is(err, ErrProviderEmailInUse) {
			return e.oauthFailure(providerID, ip, err), nil
		}
		return nil, err
	}

	sess, err := e.sessions.Create(ctx, user.SessionProfile())
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	e.recordSuccess(ctx, guard.ActionOAuthCallback, ip)
	e.notify(ctx, e.onSignIn, user, "oauth-sign-in")

	return &SignInOutcome{Success: true, User: user, Session: sess}, nil
}

// GetSession resolves a session token. Absent, expired, or invalid tokens
// return (nil, nil).
func (e *Engine) GetSession(ctx context.Context, token string) (*session.Identity, error) {
	return e.sessions.Validate(ctx, token)
}

// RefreshSession touches the session's activity timestamp.
func (e *Engine) RefreshSession(ctx context.Context, token string) (*session.Session, error) {
	return e.sessions.Update(ctx, token)
}

// SignOut revokes the session and notifies observers. The returned bool is
// the session manager's honest revocation report; jwt sessions return false.
func (e *Engine) SignOut(ctx context.Context, token string) (bool, error) {
	id, err := e.sessions.Get(ctx, token)
	if err != nil {
		return false, err
	}

	revoked, err := e.sessions.Delete(ctx, token)
	if err != nil {
		return false, err
	}

	if id != nil {
		e.notify(ctx, e.onSignOut, profileUser(id.Profile), "sign-out")
	}
	return revoked, nil
}

// SignOutAllSessions revokes every session of the user, returning the count.
func (e *Engine) SignOutAllSessions(ctx context.Context, userID uuid.UUID) (int64, error) {
	return e.sessions.DeleteAllForUser(ctx, userID)
}

// UpdatePassword changes the user's password after verifying the current one.
func (e *Engine) UpdatePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if e.password == nil {
		return ErrPasswordAuthDisabled
	}
	return e.password.UpdatePassword(ctx, userID, oldPassword, newPassword)
}

// RequestPasswordReset issues a reset token. Unknown emails return (nil, nil)
// so transports can answer uniformly.
func (e *Engine) RequestPasswordReset(ctx context.Context, email, ip string) (*PasswordResetRequest, error) {
	if e.password == nil {
		return nil, ErrPasswordAuthDisabled
	}
	if err := e.allow(ctx, guard.ActionPasswordReset, ip); err != nil {
		return nil, err
	}
	return e.password.GeneratePasswordResetToken(ctx, email)
}

// ResetPassword consumes a reset token and sets the new password.
func (e *Engine) ResetPassword(ctx context.Context, email, newPassword, token, ip string) (bool, error) {
	if e.password == nil {
		return false, ErrPasswordAuthDisabled
	}
	if err := e.allow(ctx, guard.ActionPasswordReset, ip); err != nil {
		return false, err
	}

	ok, err := e.password.ResetPassword(ctx, email, newPassword, token)
	if err != nil {
		return false, err
	}
	if ok {
		e.recordSuccess(ctx, guard.ActionPasswordReset, ip)
	} else {
		e.recordFailure(guard.ActionPasswordReset, ip)
	}
	return ok, nil
}

// SessionCookie serializes the token into the session cookie.
func (e *Engine) SessionCookie(token string) *http.Cookie {
	return e.sessions.SessionCookie(token)
}

// LogoutCookie returns the cookie that clears the session.
func (e *Engine) LogoutCookie() *http.Cookie {
	return e.sessions.LogoutCookie()
}

// SessionTokenFromCookieHeader extracts the session token from a raw Cookie
// header.
func (e *Engine) SessionTokenFromCookieHeader(header string) string {
	return e.sessions.TokenFromCookieHeader(header)
}

// IssueCSRFToken creates a CSRF token bound to the session. Returns "" when
// no guard is attached.
func (e *Engine) IssueCSRFToken(sessionID string) string {
	if e.guard == nil {
		return ""
	}
	return e.guard.IssueCSRF(sessionID)
}

// ValidateCSRFToken checks a CSRF token against its session.
func (e *Engine) ValidateCSRFToken(token, sessionID string) error {
	if e.guard == nil {
		return nil
	}
	return e.guard.ValidateCSRF(token, sessionID)
}

// CleanupExpiredSessions deletes expired session rows.
func (e *Engine) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return e.sessions.CleanupExpired(ctx)
}

// CleanupExpiredTokens deletes lapsed verification tokens.
func (e *Engine) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	if e.password == nil {
		return 0, nil
	}
	return e.password.CleanupExpiredTokens(ctx)
}

// ListProviders returns the configured OAuth provider IDs.
func (e *Engine) ListProviders() []string {
	if e.oauth == nil {
		return nil
	}
	return e.oauth.Providers()
}

// PasswordAuthEnabled reports whether password authentication is wired.
func (e *Engine) PasswordAuthEnabled() bool {
	return e.password != nil
}

// Health reports readiness. When the credential store can ping, its
// connectivity is checked; otherwise configuration presence is all there is
// to verify.
func (e *Engine) Health(ctx context.Context) error {
	if e.sessions == nil {
		return errors.New("auth: session manager not configured")
	}
	if e.password != nil {
		if p, ok := e.password.store.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return fmt.Errorf("credential store: %w", err)
			}
		}
	}
	return nil
}

func (e *Engine) allow(ctx context.Context, action, ip string) error {
	if e.guard == nil || ip == "" {
		return nil
	}
	_, err := e.guard.Allow(ctx, action, ip)
	return err
}

func (e *Engine) recordSuccess(ctx context.Context, action, ip string) {
	if e.guard == nil || ip == "" {
		return
	}
	if err := e.guard.RecordSuccess(ctx, action, ip); err != nil {
		e.log.Error("failed to reset rate limit window",
			logger.Event(action),
			logger.Error(err),
			logger.Component("engine"),
		)
	}
}

func (e *Engine) recordFailure(action, ip string) {
	if e.guard == nil || ip == "" {
		return
	}
	e.guard.RecordFailure(action, ip)
}

func (e *Engine) oauthFailure(providerID, ip string, cause error) *SignInOutcome {
	e.recordFailure(guard.ActionOAuthCallback, ip)
	e.log.Warn("oauth callback failed",
		logger.Provider(providerID),
		logger.Error(cause),
		logger.Component("engine"),
	)
	return &SignInOutcome{Success: false, Message: genericSignInFailure}
}

// notify runs observers synchronously after the state change committed.
// Each observer is isolated: an error is logged, a panic is recovered, and
// neither stops the remaining observers or fails the parent operation.
func (e *Engine) notify(ctx context.Context, observers []Observer, user *User, event string) {
	for _, fn := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					e.log.Error("lifecycle observer panicked",
						logger.Event(event),
						logger.UserID(user.ID.String()),
						slog.Any("panic", r),
						logger.Component("engine"),
					)
				}
			}()
			if err := fn(ctx, user); err != nil {
				e.log.Error("lifecycle observer failed",
					logger.Event(event),
					logger.UserID(user.ID.String()),
					logger.Error(err),
					logger.Component("engine"),
				)
			}
		}()
	}
}

func profileUser(p session.Profile) *User {
	return &User{
		ID:            p.UserID,
		Email:         p.Email,
		Name:          p.Name,
		EmailVerified: p.EmailVerified,
		Image:         p.Image,
	}
}
