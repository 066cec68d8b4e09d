package account

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/authkit/pkg/clientip"
)

// redirectURI builds the provider callback URL. It must be identical at the
// start and callback steps; configure RedirectBase when the public URL is not
// derivable from the request.
func (s *Service) redirectURI(r *http.Request, provider string) string {
	if s.cfg.RedirectBase != "" {
		return strings.TrimSuffix(s.cfg.RedirectBase, "/") + "/oauth/" + provider + "/callback"
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	path := r.URL.Path
	if !strings.HasSuffix(path, "/callback") {
		path += "/callback"
	}
	return scheme + "://" + r.Host + path
}

func (s *Service) oauthStart(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	url, state, err := s.engine.OAuthAuthorizationURL(provider, s.redirectURI(r, provider))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.StateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(s.cfg.StateTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, url, http.StatusFound)
}

func (s *Service) oauthCallback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	var issuedState string
	if c, err := r.Cookie(s.cfg.StateCookieName); err == nil {
		issuedState = c.Value
	}

	// One shot per redirect; drop the state cookie regardless of outcome.
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.StateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	q := r.URL.Query()
	out, err := s.engine.HandleOAuthCallback(
		r.Context(),
		provider,
		q.Get("code"),
		s.redirectURI(r, provider),
		issuedState,
		q.Get("state"),
		clientip.FromContext(r.Context()),
	)
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
