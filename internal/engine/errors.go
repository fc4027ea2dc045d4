package engine

import "errors"

var (
	// ErrInvalidInput marks validation failures caught before any gateway write.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks operations referencing an id no longer present.
	ErrNotFound = errors.New("not found")
)
