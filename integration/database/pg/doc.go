// Package pg manages the PostgreSQL connection pool used by the note store.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations.FS, log); err != nil {
//		return err
//	}
//
// Connect retries with exponential backoff and verifies the pool with a ping.
// Migrate runs goose over an fs.FS so migrations can be embedded in the binary.
// Healthcheck returns a probe for the readiness endpoint.
//
// WithTx and TxFromContext carry a transaction through a context. Conn picks it up
// so that stores join a caller's transaction:
//
//	tx, err := pool.Begin(ctx)
//	...
//	ref, err := store.Create(pg.WithTx(ctx, tx), ownerID)
package pg
