package account

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/binder"
	"github.com/dmitrymomot/authkit/pkg/clientip"
)

type profilePayload struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	Image         string `json:"image,omitempty"`
}

func userPayload(u *auth.User) profilePayload {
	return profilePayload{
		UserID:        u.ID.String(),
		Email:         u.Email,
		Name:          u.Name,
		EmailVerified: u.EmailVerified,
		Image:         u.Image,
	}
}

type signUpRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Name     string `json:"name" form:"name"`
}

type signUpResponse struct {
	User                 profilePayload `json:"user"`
	RequiresVerification bool           `json:"requires_verification"`
}

func (s *Service) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := binder.Body()(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.engine.SignUpWithPassword(r.Context(), req.Email, req.Password, req.Name, clientip.FromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	http.SetCookie(w, s.engine.SessionCookie(out.Session.Token))
	writeJSON(w, http.StatusCreated, signUpResponse{
		User:                 userPayload(out.User),
		RequiresVerification: out.RequiresVerification,
	})
}

type signInRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type signInResponse struct {
	User profilePayload `json:"user"`
}

func (s *Service) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := binder.Body()(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.engine.SignInWithPassword(r.Context(), req.Email, req.Password, clientip.FromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !out.Success {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: out.Message})
		return
	}

	http.SetCookie(w, s.engine.SessionCookie(out.Session.Token))
	writeJSON(w, http.StatusOK, signInResponse{User: userPayload(out.User)})
}

type signOutResponse struct {
	Revoked bool `json:"revoked"`
}

func (s *Service) signOut(w http.ResponseWriter, r *http.Request) {
	revoked, err := s.engine.SignOut(r.Context(), s.sessionToken(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	http.SetCookie(w, s.engine.LogoutCookie())
	writeJSON(w, http.StatusOK, signOutResponse{Revoked: revoked})
}

type sessionResponse struct {
	User      profilePayload `json:"user"`
	ExpiresAt time.Time      `json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
}

func (s *Service) currentSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.engine.GetSession(r.Context(), s.sessionToken(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if id == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Not authenticated"})
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		User: profilePayload{
			UserID:        id.Profile.UserID.String(),
			Email:         id.Profile.Email,
			Name:          id.Profile.Name,
			EmailVerified: id.Profile.EmailVerified,
			Image:         id.Profile.Image,
		},
		ExpiresAt: id.Session.ExpiresAt,
		CreatedAt: id.Session.CreatedAt,
	})
}

type refreshResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) refreshSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.RefreshSession(r.Context(), s.sessionToken(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if sess == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Not authenticated"})
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{ExpiresAt: sess.ExpiresAt, UpdatedAt: sess.UpdatedAt})
}

type csrfResponse struct {
	Token string `json:"token"`
}

func (s *Service) csrfToken(w http.ResponseWriter, r *http.Request) {
	var scope string
	if c, err := r.Cookie(s.cfg.ScopeCookieName); err == nil && c.Value != "" {
		scope = c.Value
	}
	if scope == "" {
		scope = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     s.cfg.ScopeCookieName,
			Value:    scope,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.cfg.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}

	writeJSON(w, http.StatusOK, csrfResponse{Token: s.engine.IssueCSRFToken(scope)})
}

type forgotPasswordRequest struct {
	Email string `json:"email" form:"email"`
}

func (s *Service) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := binder.Body()(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	reset, err := s.engine.RequestPasswordReset(r.Context(), req.Email, clientip.FromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if reset != nil && s.resetSink != nil {
		s.resetSink(r.Context(), reset)
	}

	// Uniform answer; whether the email exists stays server-side.
	writeJSON(w, http.StatusAccepted, messageResponse{Message: "If that email is registered, a reset link is on its way"})
}

type resetPasswordRequest struct {
	Email       string `json:"email" form:"email"`
	Token       string `json:"token" form:"token"`
	NewPassword string `json:"new_password" form:"new_password"`
}

func (s *Service) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := binder.Body()(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ok, err := s.engine.ResetPassword(r.Context(), req.Email, req.NewPassword, req.Token, clientip.FromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid or expired reset token"})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Password updated"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

func (s *Service) changePassword(w http.ResponseWriter, r *http.Request) {
	id, err := s.engine.GetSession(r.Context(), s.sessionToken(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if id == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Not authenticated"})
		return
	}

	var req changePasswordRequest
	if err := binder.Body()(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.engine.UpdatePassword(r.Context(), id.Profile.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Password updated"})
}

type providersResponse struct {
	Providers    []string `json:"providers"`
	PasswordAuth bool     `json:"password_auth"`
}

func (s *Service) providers(w http.ResponseWriter, r *http.Request) {
	providers := s.engine.ListProviders()
	if providers == nil {
		providers = []string{}
	}
	writeJSON(w, http.StatusOK, providersResponse{
		Providers:    providers,
		PasswordAuth: s.engine.PasswordAuthEnabled(),
	})
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Service) health(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Health(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
