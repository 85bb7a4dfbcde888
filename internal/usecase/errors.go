package usecase

import "errors"

// Callers match these with errors.Is; the wrapped message carries the detail.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrNonCritical = errors.New("nothing to change")
)
