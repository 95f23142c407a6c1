package notes

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
)

// Reference identifies a note without its content.
type Reference struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is the note persistence used by the resolver.
type Store interface {
	// Newest returns the owner's most recently updated note, or ErrNotFound.
	Newest(ctx context.Context, ownerID uuid.UUID) (Reference, error)
	// Create makes the owner's initial note. Concurrent calls for the same owner
	// return the same note.
	Create(ctx context.Context, ownerID uuid.UUID) (Reference, error)
}

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Newer reports whether a sorts before b in "newest" order.
func Newer(a, b Reference) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}
