// Package sqlitestore is the embedded SQLite note store for single-node deployments.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrymomot/notegate/notes"
	"github.com/dmitrymomot/notegate/notes/sqlitestore/migrations"
)

const (
	newestQuery = `
SELECT id, owner_id, created_at, updated_at
FROM notes
WHERE owner_id = ?
ORDER BY updated_at DESC, created_at ASC, id ASC
LIMIT 1`

	createInitialQuery = `
INSERT INTO notes (id, owner_id, initial, created_at, updated_at)
VALUES (?, ?, 1, ?, ?)
ON CONFLICT (owner_id) WHERE initial = 1 DO NOTHING
RETURNING id, owner_id, created_at, updated_at`

	initialQuery = `
SELECT id, owner_id, created_at, updated_at
FROM notes
WHERE owner_id = ? AND initial = 1`
)

// Store implements notes.Store on SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlitestore: create directory: %w", err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("sqlitestore: migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("sqlitestore: apply migrations: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Newest returns the owner's most recently updated note.
func (s *Store) Newest(ctx context.Context, ownerID uuid.UUID) (notes.Reference, error) {
	ref, err := scan(s.db.QueryRowContext(ctx, newestQuery, ownerID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notes.Reference{}, notes.ErrNotFound
		}
		return notes.Reference{}, fmt.Errorf("sqlitestore: newest note: %w", err)
	}
	return ref, nil
}

// Create inserts the owner's initial note or returns the existing one.
func (s *Store) Create(ctx context.Context, ownerID uuid.UUID) (notes.Reference, error) {
	if ownerID == uuid.Nil {
		return notes.Reference{}, notes.ErrInvalidOwner
	}

	now := s.now().UTC().UnixMicro()
	ref, err := scan(s.db.QueryRowContext(ctx, createInitialQuery, uuid.NewString(), ownerID.String(), now, now))
	if err == nil {
		return ref, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return notes.Reference{}, fmt.Errorf("sqlitestore: create note: %w", err)
	}

	ref, err = scan(s.db.QueryRowContext(ctx, initialQuery, ownerID.String()))
	if err != nil {
		return notes.Reference{}, fmt.Errorf("sqlitestore: load initial note: %w", err)
	}
	return ref, nil
}

// Touch sets a note's updated_at. It is used by seeding and tests.
func (s *Store) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE notes SET updated_at = ? WHERE id = ?`, at.UTC().UnixMicro(), id.String())
	return err
}

// Insert adds a non-initial note. It is used by seeding and tests.
func (s *Store) Insert(ctx context.Context, ref notes.Reference) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, owner_id, initial, created_at, updated_at) VALUES (?, ?, 0, ?, ?)`,
		ref.ID.String(), ref.OwnerID.String(), ref.CreatedAt.UTC().UnixMicro(), ref.UpdatedAt.UTC().UnixMicro(),
	)
	return err
}

// Ping checks the database.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func scan(r *sql.Row) (notes.Reference, error) {
	var (
		id, owner        string
		created, updated int64
	)
	if err := r.Scan(&id, &owner, &created, &updated); err != nil {
		return notes.Reference{}, err
	}
	ref := notes.Reference{
		CreatedAt: time.UnixMicro(created).UTC(),
		UpdatedAt: time.UnixMicro(updated).UTC(),
	}
	var err error
	if ref.ID, err = uuid.Parse(id); err != nil {
		return notes.Reference{}, fmt.Errorf("sqlitestore: note id: %w", err)
	}
	if ref.OwnerID, err = uuid.Parse(owner); err != nil {
		return notes.Reference{}, fmt.Errorf("sqlitestore: owner id: %w", err)
	}
	return ref, nil
}
