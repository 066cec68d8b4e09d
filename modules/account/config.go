package account

import "time"

// Config controls the module's cookies and OAuth redirect construction.
type Config struct {
	// StateCookieName holds the OAuth state between the redirect and the
	// provider callback.
	StateCookieName string        `env:"ACCOUNT_STATE_COOKIE" envDefault:"oauth_state"`
	StateTTL        time.Duration `env:"ACCOUNT_STATE_TTL" envDefault:"10m"`

	// ScopeCookieName carries the anonymous identifier CSRF tokens bind to.
	ScopeCookieName string `env:"ACCOUNT_CSRF_SCOPE_COOKIE" envDefault:"csrf_scope"`

	// RedirectBase overrides request-derived OAuth redirect URIs, e.g.
	// "https://app.example.com/auth". Required behind path-rewriting proxies.
	RedirectBase string `env:"ACCOUNT_OAUTH_REDIRECT_BASE"`

	SecureCookies bool `env:"ACCOUNT_SECURE_COOKIES" envDefault:"true"`
}

// DefaultConfig returns the config used when no environment is loaded.
func DefaultConfig() Config {
	return Config{
		StateCookieName: "oauth_state",
		StateTTL:        10 * time.Minute,
		ScopeCookieName: "csrf_scope",
		SecureCookies:   true,
	}
}
