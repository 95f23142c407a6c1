package upstream

import "errors"

var (
	ErrMissingURL = errors.New("upstream: URL is required")
	ErrInvalidURL = errors.New("upstream: URL must be absolute http(s)")
)
