package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotFound       = errors.New("content not found")
	ErrNoPlatform     = errors.New("no platform specified")
	ErrInvalidRecord  = errors.New("invalid content record")
	ErrMoveConflict   = errors.New("destination already exists")
	ErrAdapterFailure = errors.New("publisher failed")
	ErrInvalidStatus  = errors.New("unknown status")
	ErrInvalidID      = errors.New("invalid content id")
)

// RecordError attaches the offending file to a parse failure.
type RecordError struct {
	Path string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap lets errors.Is match both ErrInvalidRecord and the underlying cause.
func (e *RecordError) Unwrap() []error {
	return []error{ErrInvalidRecord, e.Err}
}
