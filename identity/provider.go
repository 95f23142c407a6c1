package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const refreshSecretBytes = 32

// TokenProvider authenticates JWT access tokens and rotates opaque refresh tokens.
type TokenProvider struct {
	signer     *signer
	store      RefreshStore
	refreshTTL time.Duration
	grace      time.Duration
	now        func() time.Time
}

// ProviderOption configures a TokenProvider.
type ProviderOption func(*TokenProvider)

// WithClock overrides the time source.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *TokenProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// NewTokenProvider creates a provider from cfg backed by store.
func NewTokenProvider(cfg Config, store RefreshStore, opts ...ProviderOption) (*TokenProvider, error) {
	if store == nil {
		return nil, ErrNilRefreshStore
	}
	s, err := newSigner(cfg.SigningKey, cfg.Issuer, cfg.AccessTTL)
	if err != nil {
		return nil, err
	}

	p := &TokenProvider{
		signer:     s,
		store:      store,
		refreshTTL: cfg.RefreshTTL,
		grace:      cfg.RefreshReuseGrace,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Authenticate accepts a valid access token as is. Otherwise it rotates the
// refresh token and returns the new pair.
func (p *TokenProvider) Authenticate(ctx context.Context, creds Credentials) (Grant, error) {
	if creds.Empty() {
		return Grant{}, ErrNoCredentials
	}

	now := p.now()
	var accessErr error
	if creds.AccessToken != "" {
		userID, err := p.signer.parse(creds.AccessToken, now)
		if err == nil {
			return Grant{UserID: userID}, nil
		}
		accessErr = err
	}

	if creds.RefreshToken == "" {
		if errors.Is(accessErr, jwt.ErrTokenExpired) {
			return Grant{}, fmt.Errorf("%w: access token expired", ErrInvalidCredentials)
		}
		return Grant{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, accessErr)
	}

	return p.rotate(ctx, creds.RefreshToken, now)
}

func (p *TokenProvider) rotate(ctx context.Context, refreshToken string, now time.Time) (Grant, error) {
	sessionID, secret, err := splitRefreshToken(refreshToken)
	if err != nil {
		return Grant{}, err
	}

	nextSecret, err := newSecret()
	if err != nil {
		return Grant{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	rot, err := p.store.Rotate(ctx, RotateRequest{
		SessionID: sessionID,
		OldHash:   hashSecret(secret),
		NewHash:   hashSecret(nextSecret),
		Now:       now,
		TTL:       p.refreshTTL,
		Grace:     p.grace,
	})
	if err != nil {
		return Grant{}, err
	}

	if !rot.Rotated {
		// A concurrent request already rotated this session; its response carries
		// the new refresh token, so only a fresh access token is issued here.
		access, exp, err := p.signer.issue(rot.UserID, sessionID, now)
		if err != nil {
			return Grant{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
		}
		return Grant{UserID: rot.UserID, Tokens: &TokenPair{
			AccessToken:      access,
			AccessExpiresAt:  exp,
			RefreshExpiresAt: now.Add(p.refreshTTL),
		}}, nil
	}

	pair, err := p.pair(rot.UserID, sessionID, nextSecret, now)
	if err != nil {
		return Grant{}, err
	}
	return Grant{UserID: rot.UserID, Tokens: &pair}, nil
}

// Issue starts a new refresh session for userID.
func (p *TokenProvider) Issue(ctx context.Context, userID uuid.UUID) (TokenPair, error) {
	if userID == uuid.Nil {
		return TokenPair{}, fmt.Errorf("%w: empty user id", ErrInvalidCredentials)
	}

	secret, err := newSecret()
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	sessionID := uuid.NewString()
	if err := p.store.Create(ctx, sessionID, userID, hashSecret(secret), p.refreshTTL); err != nil {
		return TokenPair{}, err
	}
	return p.pair(userID, sessionID, secret, p.now())
}

// Revoke ends the refresh session referenced by refreshToken.
func (p *TokenProvider) Revoke(ctx context.Context, refreshToken string) error {
	sessionID, _, err := splitRefreshToken(refreshToken)
	if err != nil {
		return err
	}
	return p.store.Delete(ctx, sessionID)
}

func (p *TokenProvider) pair(userID uuid.UUID, sessionID, secret string, now time.Time) (TokenPair, error) {
	access, exp, err := p.signer.issue(userID, sessionID, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     sessionID + "." + secret,
		AccessExpiresAt:  exp,
		RefreshExpiresAt: now.Add(p.refreshTTL),
	}, nil
}

func splitRefreshToken(token string) (sessionID, secret string, err error) {
	sessionID, secret, ok := strings.Cut(token, ".")
	if !ok || secret == "" {
		return "", "", fmt.Errorf("%w: malformed refresh token", ErrInvalidCredentials)
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return "", "", fmt.Errorf("%w: malformed refresh session", ErrInvalidCredentials)
	}
	return sessionID, secret, nil
}

func newSecret() (string, error) {
	b := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
