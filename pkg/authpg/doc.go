// Package authpg persists users, OAuth accounts, password hashes,
// verification tokens, and sessions in PostgreSQL. A single Store satisfies
// both auth.Store and session.Store so one pool serves the whole stack.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	if err := pg.Migrate(ctx, pool, authpg.Migrations, cfg, log); err != nil {
//	    return err
//	}
//	store := authpg.New(pool)
package authpg
