// Package logger builds configured log/slog loggers and provides attribute
// helpers shared across authkit packages.
//
// The factory defaults to JSON output at INFO level (production-safe) and can
// be reconfigured through functional options:
//
//	log := logger.New(
//	    logger.WithTextFormatter(),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithAttr(slog.String("service", "auth")),
//	)
//
// Attribute helpers keep log keys consistent: logger.Error(err),
// logger.UserID(id), logger.Component("oauth"), logger.Provider("github").
package logger
