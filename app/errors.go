package app

import "errors"

var (
	ErrNilOption        = errors.New("app: option value cannot be nil")
	ErrUnknownNoteStore = errors.New("app: unknown note store driver")
)
