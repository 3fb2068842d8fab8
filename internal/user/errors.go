package user

import "errors"

// Custom errors
var (
	// ErrNotFound indicates the username does not resolve to a principal
	ErrNotFound = errors.New("principal not found")
)
