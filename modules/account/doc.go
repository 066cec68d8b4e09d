// Package account is a mountable chi router exposing the authentication
// engine over JSON: registration, sign-in and sign-out, OAuth redirects and
// callbacks, password recovery, session introspection, and health.
//
// State-changing routes are CSRF protected via a double-submit scope cookie;
// rate limiting keys on the client IP resolved by pkg/clientip.
//
//	svc := account.NewService(engine)
//	r := chi.NewRouter()
//	r.Mount("/auth", svc.Handler())
package account
