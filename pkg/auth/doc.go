// Package auth implements password and OAuth authentication on top of a
// pluggable credential store, orchestrated by an Engine that transport
// adapters consume.
//
// The password service covers sign-up, sign-in, password change, and the
// one-shot reset-token flow. Failed sign-ins return a single generic message
// so callers cannot distinguish an unknown email from a wrong password.
//
// The OAuth service drives the authorization-code flow through provider
// adapters (Google and GitHub ship in-package) and resolves callback profiles
// to users: an existing provider account wins, then optionally a user with
// the same email (off by default, see WithAllowEmailLinking), otherwise a new
// user is created with the provider-vouched email marked verified.
//
// The Engine ties both to the session manager and the security gate, enforces
// feature flags, and notifies registered lifecycle observers after each
// state change commits. Observer failures are logged and never fail the
// triggering operation.
package auth
