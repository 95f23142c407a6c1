package pgstore

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notegate/integration/database/pg"
	"github.com/dmitrymomot/notegate/notes/pgstore/migrations"
)

// Migrate applies the note schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	return pg.Migrate(ctx, pool, migrations.FS, log)
}
