package dataprocessing

import (
	"errors"
	"fmt"
)

// Load outcomes. Callers may only tell these two apart; the underlying cause
// is carried in the error text for logs but is not matchable.
var (
	ErrNotFound   = errors.New("price data not found")
	ErrLoadFailed = errors.New("price data load failed")
)

// LoadError reports a failed load of one file.
type LoadError struct {
	Path  string
	Kind  error // ErrNotFound or ErrLoadFailed
	cause string
}

func newLoadError(path string, kind error, cause error) *LoadError {
	e := &LoadError{Path: path, Kind: kind}
	if cause != nil {
		e.cause = cause.Error()
	}
	return e
}

func (e *LoadError) Error() string {
	if e.cause == "" {
		return fmt.Sprintf("load %s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("load %s: %v: %s", e.Path, e.Kind, e.cause)
}

// Unwrap exposes only the coarse kind.
func (e *LoadError) Unwrap() error { return e.Kind }
