// Package session manages authenticated sessions under one of two strategies
// selected at construction.
//
// StrategyDatabase persists sessions through a Store and identifies them by an
// unguessable random token. Sessions can be revoked server-side and their
// activity timestamp slides on validation.
//
// StrategyJWT mints self-contained signed tokens whose claims are the session.
// No store is consulted on reads; the trade-off is that mutating operations
// cannot take effect before the token expires naturally. Those operations
// report the no-op honestly: Delete returns false, DeleteAllForUser and
// CleanupExpired return 0, so integrators can tell revocation did not happen.
//
//	m, err := session.NewManager(session.Config{
//	    Strategy: session.StrategyDatabase,
//	    MaxAge:   30 * 24 * time.Hour,
//	}, session.WithStore(store))
//
// Cookie helpers serialize the session token with HttpOnly, SameSite=Lax and
// Path=/ attributes; the Secure attribute follows configuration.
package session
