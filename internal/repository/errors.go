package repository

import "errors"

// Storage adapters narrow their failures to these kinds; everything else is
// wrapped with the operation name and input context and propagated as-is.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
