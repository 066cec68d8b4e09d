// Package config loads typed configuration structs from environment
// variables, with optional .env file support and per-type caching.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - Loads the default `.env` file once, if present.
//   - Parses the environment into any Go struct using `env` field tags.
//   - Caches each successfully loaded configuration type so it is parsed at
//     most once per process, even under concurrent access.
//
// Typical usage in authkit is loading per-package configs at startup:
//
//	var sess session.Config
//	config.MustLoad(&sess)
//
//	var google auth.GoogleOAuthConfig
//	config.MustLoad(&google)
//
// Sentinel errors can be compared with errors.Is: ErrParsingConfig,
// ErrConfigNotLoaded, ErrNilPointer.
package config
