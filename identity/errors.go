package identity

import "errors"

var (
	// ErrInvalidCredentials means the provider definitively rejected the tokens.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	// ErrProviderUnavailable means the provider could not decide, e.g. storage is down.
	ErrProviderUnavailable = errors.New("identity: provider unavailable")
	// ErrNoCredentials means neither token was presented.
	ErrNoCredentials = errors.New("identity: no credentials")

	ErrMissingSigningKey = errors.New("identity: signing key must be at least 32 bytes")
	ErrNilRefreshStore   = errors.New("identity: refresh store is required")
)
