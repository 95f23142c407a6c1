package app

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/notegate/core/health"
	"github.com/dmitrymomot/notegate/integration/database/pg"
	"github.com/dmitrymomot/notegate/notes"
	"github.com/dmitrymomot/notegate/notes/pgstore"
	"github.com/dmitrymomot/notegate/notes/sqlitestore"
)

const noteStoreCheck = "notes"

// openNoteStore opens the store selected by the Notes config and registers its
// cleanup.
func (app *App) openNoteStore(ctx context.Context) (notes.Store, health.Check, error) {
	log := app.logger

	switch app.config.Notes.Driver {
	case notes.DriverPostgres:
		pool, err := pg.Connect(ctx, app.config.DB)
		if err != nil {
			return nil, health.Check{}, err
		}
		app.closers = append(app.closers, func() error { pool.Close(); return nil })
		if err := pgstore.Migrate(ctx, pool, log); err != nil {
			return nil, health.Check{}, err
		}
		return pgstore.New(pool), health.Check{Name: noteStoreCheck, Fn: pg.Healthcheck(pool)}, nil

	case notes.DriverSQLite:
		store, err := sqlitestore.Open(ctx, app.config.Notes.SQLitePath)
		if err != nil {
			return nil, health.Check{}, err
		}
		app.closers = append(app.closers, store.Close)
		return store, pingCheck(store), nil

	case notes.DriverHTTP:
		store, err := notes.NewHTTPStore(app.config.Notes.ServiceURL)
		if err != nil {
			return nil, health.Check{}, err
		}
		return store, pingCheck(store), nil

	case notes.DriverMemory:
		store := notes.NewMemoryStore()
		return store, pingCheck(store), nil

	default:
		return nil, health.Check{}, fmt.Errorf("%w: %q", ErrUnknownNoteStore, app.config.Notes.Driver)
	}
}

func pingCheck(store notes.Store) health.Check {
	fn := func(context.Context) error { return nil }
	if p, ok := store.(notes.Pinger); ok {
		fn = p.Ping
	}
	return health.Check{Name: noteStoreCheck, Fn: fn}
}
