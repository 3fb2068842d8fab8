// Package auth provides bearer token issuance and validation.
package auth

import "errors"

var (
	// ErrInvalidCredentials indicates the username is unknown or the password check failed
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrInvalidToken indicates a malformed, tampered or expired token
	ErrInvalidToken = errors.New("could not validate credentials")

	// ErrUnknownSubject indicates the token subject no longer resolves to a principal
	ErrUnknownSubject = errors.New("token subject not found")

	// ErrInactiveUser indicates the principal is disabled
	ErrInactiveUser = errors.New("inactive user")
)
