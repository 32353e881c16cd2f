package router

import "errors"

var (
	// ErrInvalidPattern is returned for patterns that cannot be compiled.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrFrozen is returned when registering into a frozen registry.
	ErrFrozen = errors.New("registry is frozen")
)
