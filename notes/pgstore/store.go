// Package pgstore is the PostgreSQL note store.
package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notegate/integration/database/pg"
	"github.com/dmitrymomot/notegate/notes"
)

const (
	newestQuery = `
SELECT id, owner_id, created_at, updated_at
FROM notes
WHERE owner_id = $1
ORDER BY updated_at DESC, created_at ASC, id ASC
LIMIT 1`

	createInitialQuery = `
INSERT INTO notes (id, owner_id, initial, created_at, updated_at)
VALUES ($1, $2, TRUE, $3, $3)
ON CONFLICT (owner_id) WHERE initial DO NOTHING
RETURNING id, owner_id, created_at, updated_at`

	initialQuery = `
SELECT id, owner_id, created_at, updated_at
FROM notes
WHERE owner_id = $1 AND initial`
)

// Store implements notes.Store on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// New creates a store. Run Migrate before first use.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, now: time.Now}
}

// Newest returns the owner's most recently updated note.
func (s *Store) Newest(ctx context.Context, ownerID uuid.UUID) (notes.Reference, error) {
	ref, err := scan(pg.Conn(ctx, s.pool).QueryRow(ctx, newestQuery, ownerID))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return notes.Reference{}, notes.ErrNotFound
		}
		return notes.Reference{}, fmt.Errorf("pgstore: newest note: %w", err)
	}
	return ref, nil
}

// Create inserts the owner's initial note or returns the one a concurrent caller made.
func (s *Store) Create(ctx context.Context, ownerID uuid.UUID) (notes.Reference, error) {
	if ownerID == uuid.Nil {
		return notes.Reference{}, notes.ErrInvalidOwner
	}

	db := pg.Conn(ctx, s.pool)
	ref, err := scan(db.QueryRow(ctx, createInitialQuery, uuid.New(), ownerID, s.now().UTC()))
	if err == nil {
		return ref, nil
	}
	if !pg.IsNotFoundError(err) {
		return notes.Reference{}, fmt.Errorf("pgstore: create note: %w", err)
	}

	// Lost the race: the conflicting insert has committed its row.
	ref, err = scan(db.QueryRow(ctx, initialQuery, ownerID))
	if err != nil {
		return notes.Reference{}, fmt.Errorf("pgstore: load initial note: %w", err)
	}
	return ref, nil
}

// Ping checks the pool.
func (s *Store) Ping(ctx context.Context) error {
	return pg.Healthcheck(s.pool)(ctx)
}

type row interface {
	Scan(dest ...any) error
}

func scan(r row) (notes.Reference, error) {
	var ref notes.Reference
	if err := r.Scan(&ref.ID, &ref.OwnerID, &ref.CreatedAt, &ref.UpdatedAt); err != nil {
		return notes.Reference{}, err
	}
	return ref, nil
}
