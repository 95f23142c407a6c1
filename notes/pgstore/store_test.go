package pgstore_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notegate/integration/database/pg"
	"github.com/dmitrymomot/notegate/notes"
	"github.com/dmitrymomot/notegate/notes/pgstore"
)

func newStore(t *testing.T) *pgstore.Store {
	t.Helper()

	dsn := os.Getenv("TEST_PG_URL")
	if dsn == "" {
		t.Skip("TEST_PG_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.Connect(ctx, pg.Config{ConnectionString: dsn, RetryAttempts: 1, RetryInterval: time.Second})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pgstore.Migrate(ctx, pool, nil))
	return pgstore.New(pool)
}

func TestStore(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	owner := uuid.New()

	_, err := store.Newest(ctx, owner)
	assert.ErrorIs(t, err, notes.ErrNotFound)

	created, err := store.Create(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, owner, created.OwnerID)

	newest, err := store.Newest(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, created.ID, newest.ID)

	again, err := store.Create(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	assert.NoError(t, store.Ping(ctx))
}

func TestStoreConcurrentCreate(t *testing.T) {
	store := newStore(t)
	owner := uuid.New()

	const workers = 10
	ids := make([]uuid.UUID, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref, err := store.Create(context.Background(), owner)
			assert.NoError(t, err)
			ids[i] = ref.ID
		}()
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}
