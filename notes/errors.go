package notes

import "errors"

var (
	// ErrNotFound is returned by Store.Newest when the user owns no notes.
	ErrNotFound = errors.New("notes: not found")
	// ErrResolutionUnavailable wraps every failure of Resolver.Resolve.
	ErrResolutionUnavailable = errors.New("notes: resolution unavailable")

	ErrNilStore      = errors.New("notes: store is required")
	ErrInvalidOwner  = errors.New("notes: owner id is required")
	ErrUnexpectedAPI = errors.New("notes: unexpected note service response")
)
