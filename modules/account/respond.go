package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/binder"
	"github.com/dmitrymomot/authkit/pkg/guard"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/requestid"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps engine and binding errors to transport responses. Anything
// unmapped is an infrastructure failure: logged server-side, generic to the
// client.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, guard.ErrRateLimitExceeded):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too many attempts, try again later"})
	case errors.Is(err, guard.ErrCSRFTokenMissing), errors.Is(err, guard.ErrCSRFTokenInvalid):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "Invalid or missing CSRF token"})
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "Email is already registered"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid credentials"})
	case errors.Is(err, auth.ErrUserNotFound):
		// Session outlived its user; treat as signed out.
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Not authenticated"})
	case errors.Is(err, auth.ErrPasswordAuthDisabled), errors.Is(err, auth.ErrProviderNotConfigured):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, binder.ErrFailedToParseJSON),
		errors.Is(err, binder.ErrFailedToParseForm),
		errors.Is(err, binder.ErrUnsupportedMediaType):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Malformed request"})
	default:
		s.log.ErrorContext(r.Context(), "account handler failed",
			logger.Error(err),
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Component("account"),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}
