// Package guard is the security-policy gate that fronts the authentication
// flows: per-identifier rate limiting with hard-block escalation, stateless
// CSRF token issuance and validation, password policy scoring, and a bounded
// in-memory log of security events with advisory suspicious-activity
// detection.
//
// Rate limiting sits behind the RateLimitStore interface; the in-memory store
// suits single-instance deployments, while the Redis store shares state
// between instances. CSRF tokens are HMAC-signed and need no shared state.
//
//	g := guard.New("csrf-signing-secret")
//
//	if _, err := g.Allow(ctx, guard.ActionSignIn, clientIP); err != nil {
//	    // errors.Is(err, guard.ErrRateLimitExceeded) → respond 429
//	}
//
// Policy violations are typed errors carrying a stable machine code so
// transport adapters can map them to status codes without string matching.
package guard
