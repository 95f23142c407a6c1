package notes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notegate/core/logger"
)

// Resolution outcomes reported to observers.
const (
	ResultFound       = "found"
	ResultCreated     = "created"
	ResultUnavailable = "unavailable"
)

const defaultResolveTimeout = 3 * time.Second

// Observer receives the outcome and latency of each resolution.
type Observer func(result string, elapsed time.Duration)

// Resolver implements the newest-or-create policy.
type Resolver struct {
	store    Store
	timeout  time.Duration
	logger   *slog.Logger
	observer Observer
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTimeout bounds the lookup and the optional create together.
func WithTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the resolver logger.
func WithLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.logger = log
		}
	}
}

// WithObserver registers a callback invoked once per Resolve.
func WithObserver(o Observer) ResolverOption {
	return func(r *Resolver) { r.observer = o }
}

// NewResolver creates a resolver over store.
func NewResolver(store Store, opts ...ResolverOption) (*Resolver, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	r := &Resolver{
		store:   store,
		timeout: defaultResolveTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve returns the id of userID's newest note, creating the first note when the
// user has none. Every failure wraps ErrResolutionUnavailable.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	start := time.Now()
	id, result, err := r.resolve(ctx, userID)
	if r.observer != nil {
		r.observer(result, time.Since(start))
	}
	if err != nil {
		r.logger.WarnContext(ctx, "note resolution failed", logger.UserID(userID), logger.Error(err))
		return uuid.Nil, err
	}
	r.logger.DebugContext(ctx, "note resolved", logger.UserID(userID), logger.NoteID(id), logger.Result(result))
	return id, nil
}

func (r *Resolver) resolve(ctx context.Context, userID uuid.UUID) (uuid.UUID, string, error) {
	if userID == uuid.Nil {
		return uuid.Nil, ResultUnavailable, fmt.Errorf("%w: %w", ErrResolutionUnavailable, ErrInvalidOwner)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ref, err := r.store.Newest(ctx, userID)
	switch {
	case err == nil:
		return ref.ID, ResultFound, nil
	case !errors.Is(err, ErrNotFound):
		return uuid.Nil, ResultUnavailable, fmt.Errorf("%w: lookup newest note: %w", ErrResolutionUnavailable, err)
	}

	ref, err = r.store.Create(ctx, userID)
	if err != nil {
		return uuid.Nil, ResultUnavailable, fmt.Errorf("%w: create note: %w", ErrResolutionUnavailable, err)
	}
	return ref.ID, ResultCreated, nil
}
