package session

import "time"

// Strategy selects how sessions are represented.
type Strategy string

const (
	// StrategyDatabase stores sessions as rows addressed by a random token.
	StrategyDatabase Strategy = "database"

	// StrategyJWT encodes the session into a self-contained signed token.
	StrategyJWT Strategy = "jwt"
)

// Config holds session manager settings, loadable from the environment.
type Config struct {
	Strategy Strategy `env:"SESSION_STRATEGY" envDefault:"database"`

	// MaxAge is the session lifetime from creation.
	MaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"720h"`

	// Secret signs jwt-strategy tokens. Unused under the database strategy.
	Secret string `env:"SESSION_SECRET"`

	CookieName    string `env:"SESSION_COOKIE_NAME" envDefault:"session_token"`
	SecureCookies bool   `env:"SESSION_SECURE_COOKIES" envDefault:"true"`
	CookieDomain  string `env:"SESSION_COOKIE_DOMAIN"`

	// CleanupInterval drives the memory store's expired-session sweeper
	// (0 disables).
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"10m"`
}

// DefaultConfig returns production defaults: database strategy, 30-day
// sessions, secure cookies.
func DefaultConfig() Config {
	return Config{
		Strategy:        StrategyDatabase,
		MaxAge:          30 * 24 * time.Hour,
		CookieName:      "session_token",
		SecureCookies:   true,
		CleanupInterval: 10 * time.Minute,
	}
}

func (c Config) validate() error {
	switch c.Strategy {
	case StrategyDatabase, StrategyJWT:
	default:
		return ErrUnknownStrategy
	}
	if c.Strategy == StrategyJWT && c.Secret == "" {
		return ErrMissingSecret
	}
	return nil
}
