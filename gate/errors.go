package gate

import "errors"

var (
	ErrNilRefresher      = errors.New("gate: credential refresher is nil")
	ErrNilResolver       = errors.New("gate: note resolver is nil")
	ErrInvalidBaseURL    = errors.New("gate: public base URL must be absolute")
	ErrInvalidAppRoot    = errors.New("gate: app root must be an absolute path")
	ErrAppRootIsAuthPage = errors.New("gate: app root cannot be an auth page")
	ErrNilResponse       = errors.New("gate: passthrough without a downstream response")
)
