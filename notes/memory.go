package notes

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps notes in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	notes   map[uuid.UUID][]Reference
	initial map[uuid.UUID]Reference
	now     func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		notes:   make(map[uuid.UUID][]Reference),
		initial: make(map[uuid.UUID]Reference),
		now:     time.Now,
	}
}

// Newest returns the owner's newest note.
func (s *MemoryStore) Newest(ctx context.Context, ownerID uuid.UUID) (Reference, error) {
	if err := ctx.Err(); err != nil {
		return Reference{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	refs := s.notes[ownerID]
	if len(refs) == 0 {
		return Reference{}, ErrNotFound
	}
	newest := refs[0]
	for _, ref := range refs[1:] {
		if Newer(ref, newest) {
			newest = ref
		}
	}
	return newest, nil
}

// Create returns the owner's initial note, creating it on first call.
func (s *MemoryStore) Create(ctx context.Context, ownerID uuid.UUID) (Reference, error) {
	if err := ctx.Err(); err != nil {
		return Reference{}, err
	}
	if ownerID == uuid.Nil {
		return Reference{}, ErrInvalidOwner
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ref, ok := s.initial[ownerID]; ok {
		return ref, nil
	}
	now := s.now().UTC()
	ref := Reference{ID: uuid.New(), OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}
	s.initial[ownerID] = ref
	s.notes[ownerID] = append(s.notes[ownerID], ref)
	return ref, nil
}

// Put inserts or replaces a note. It is meant for seeding.
func (s *MemoryStore) Put(ref Reference) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs := s.notes[ref.OwnerID]
	for i := range refs {
		if refs[i].ID == ref.ID {
			refs[i] = ref
			return
		}
	}
	s.notes[ref.OwnerID] = append(refs, ref)
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
