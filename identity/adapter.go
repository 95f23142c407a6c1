package identity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notegate/core/cookie"
	"github.com/dmitrymomot/notegate/core/logger"
)

// Adapter refreshes credential cookies through a Provider.
type Adapter struct {
	provider      Provider
	cookies       *cookie.Manager
	accessCookie  string
	refreshCookie string
	timeout       time.Duration
	now           func() time.Time
	logger        *slog.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithCookieNames overrides the access and refresh cookie names.
func WithCookieNames(access, refresh string) AdapterOption {
	return func(a *Adapter) {
		if access != "" {
			a.accessCookie = access
		}
		if refresh != "" {
			a.refreshCookie = refresh
		}
	}
}

// WithRefreshTimeout bounds each provider call.
func WithRefreshTimeout(d time.Duration) AdapterOption {
	return func(a *Adapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithLogger sets the adapter logger.
func WithLogger(log *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		if log != nil {
			a.logger = log
		}
	}
}

// WithAdapterClock overrides the time source used for cookie lifetimes.
func WithAdapterClock(now func() time.Time) AdapterOption {
	return func(a *Adapter) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAdapter creates an adapter. cookies supplies the attributes of emitted mutations.
func NewAdapter(provider Provider, cookies *cookie.Manager, opts ...AdapterOption) *Adapter {
	if cookies == nil {
		cookies = cookie.New()
	}
	a := &Adapter{
		provider:      provider,
		cookies:       cookies,
		accessCookie:  DefaultConfig().AccessCookie,
		refreshCookie: DefaultConfig().RefreshCookie,
		timeout:       DefaultConfig().RefreshTimeout,
		now:           time.Now,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Refresh derives the session for a request from its cookies and returns the cookie
// mutations to apply. It never fails: provider errors degrade to an unauthenticated
// session.
func (a *Adapter) Refresh(ctx context.Context, cookies map[string]string) (Session, []cookie.Mutation) {
	creds := Credentials{
		AccessToken:  cookies[a.accessCookie],
		RefreshToken: cookies[a.refreshCookie],
	}
	if creds.Empty() {
		return Session{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	grant, err := a.provider.Authenticate(ctx, creds)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoCredentials):
		return Session{}, nil
	case errors.Is(err, ErrInvalidCredentials):
		a.logger.DebugContext(ctx, "credentials rejected", logger.Error(err))
		return Session{}, a.clear(creds)
	default:
		a.logger.WarnContext(ctx, "credential refresh unavailable", logger.Error(err))
		return Session{}, nil
	}

	if grant.UserID == uuid.Nil {
		return Session{}, nil
	}

	sess := Session{UserID: grant.UserID, CredentialsValid: true}
	if grant.Tokens == nil {
		return sess, nil
	}

	a.logger.DebugContext(ctx, "credentials rotated", logger.UserID(grant.UserID))
	return sess, a.store(*grant.Tokens)
}

func (a *Adapter) store(pair TokenPair) []cookie.Mutation {
	maxAge := int(pair.RefreshExpiresAt.Sub(a.now()).Seconds())
	opts := []cookie.Option{}
	if maxAge > 0 {
		opts = append(opts, cookie.WithMaxAge(maxAge))
	}
	muts := []cookie.Mutation{a.cookies.Set(a.accessCookie, pair.AccessToken, opts...)}
	if pair.RefreshToken != "" {
		muts = append(muts, a.cookies.Set(a.refreshCookie, pair.RefreshToken, opts...))
	}
	return muts
}

func (a *Adapter) clear(creds Credentials) []cookie.Mutation {
	var muts []cookie.Mutation
	if creds.AccessToken != "" {
		muts = append(muts, a.cookies.Delete(a.accessCookie))
	}
	if creds.RefreshToken != "" {
		muts = append(muts, a.cookies.Delete(a.refreshCookie))
	}
	return muts
}
