package account

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/clientip"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/requestid"
)

// ResetTokenSink receives freshly issued password reset tokens for delivery,
// typically over email. It runs synchronously in the request path.
type ResetTokenSink func(ctx context.Context, req *auth.PasswordResetRequest)

// Service adapts the authentication engine to HTTP.
type Service struct {
	engine    *auth.Engine
	cfg       Config
	log       *slog.Logger
	resetSink ResetTokenSink
}

// Option configures a Service.
type Option func(*Service)

// WithConfig replaces the default module config.
func WithConfig(cfg Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// WithLogger sets the module logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithResetTokenSink wires reset token delivery. Without one, tokens are
// issued but reach nobody, which is only useful in tests.
func WithResetTokenSink(sink ResetTokenSink) Option {
	return func(s *Service) { s.resetSink = sink }
}

// NewService builds the HTTP service around an engine.
func NewService(engine *auth.Engine, opts ...Option) *Service {
	s := &Service{
		engine: engine,
		cfg:    DefaultConfig(),
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the mountable router.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)

	r.Get("/healthz", s.health)
	r.Get("/providers", s.providers)
	r.Get("/csrf", s.csrfToken)
	r.Get("/session", s.currentSession)
	r.Post("/session/refresh", s.refreshSession)

	r.Group(func(g chi.Router) {
		g.Use(s.requireCSRF)

		g.Post("/signup", s.signUp)
		g.Post("/signin", s.signIn)
		g.Post("/signout", s.signOut)
		g.Post("/password/forgot", s.forgotPassword)
		g.Post("/password/reset", s.resetPassword)
		g.Post("/password/change", s.changePassword)
	})

	r.Get("/oauth/{provider}", s.oauthStart)
	r.Get("/oauth/{provider}/callback", s.oauthCallback)

	return r
}

// sessionToken extracts the session token from the request cookies.
func (s *Service) sessionToken(r *http.Request) string {
	return s.engine.SessionTokenFromCookieHeader(r.Header.Get("Cookie"))
}

// requireCSRF enforces the double-submit check: the X-CSRF-Token header must
// validate against the scope cookie set by GET /csrf. With no guard attached
// to the engine the check is a no-op.
func (s *Service) requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var scope string
		if c, err := r.Cookie(s.cfg.ScopeCookieName); err == nil {
			scope = c.Value
		}

		if err := s.engine.ValidateCSRFToken(r.Header.Get("X-CSRF-Token"), scope); err != nil {
			s.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
