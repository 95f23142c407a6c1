package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is the authentication state derived for a single request.
type Session struct {
	UserID           uuid.UUID
	CredentialsValid bool
}

// IsAuthenticated reports whether the request belongs to a signed-in user.
func (s Session) IsAuthenticated() bool {
	return s.CredentialsValid && s.UserID != uuid.Nil
}

// Credentials are the raw tokens read from the request.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Empty reports whether no token was presented.
func (c Credentials) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// TokenPair is a freshly issued set of credentials.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Grant is the outcome of a successful authentication.
// Tokens is set only when the provider rotated the credentials.
type Grant struct {
	UserID uuid.UUID
	Tokens *TokenPair
}

// Provider validates credentials and rotates them when the access token is stale.
type Provider interface {
	Authenticate(ctx context.Context, creds Credentials) (Grant, error)
}
