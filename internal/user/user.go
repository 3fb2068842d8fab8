// Package user provides the principal model and the credential directory abstraction.
package user

import "context"

// Principal represents an account known to the credential directory.
// Records are read-only from the serving path's perspective.
type Principal struct {
	Username       string `json:"username"`
	FullName       string `json:"full_name,omitempty"`
	Email          string `json:"email,omitempty"`
	HashedPassword string `json:"-"`
	Disabled       bool   `json:"disabled"`
}

// Repository defines the lookup contract for the credential directory.
// Implementations must be safe for concurrent use.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*Principal, error)
}
