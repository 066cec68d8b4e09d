// Package pg bootstraps a PostgreSQL layer on pgx/v5: a pooled connection
// with retry on startup, goose schema migrations from an embedded filesystem,
// a health check closure, and error classification helpers.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, authpg.Migrations, cfg, log); err != nil {
//	    return err
//	}
package pg
