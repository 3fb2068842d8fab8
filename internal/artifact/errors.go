// Package artifact provides versioned model artifact resolution and the
// serialized estimator format.
package artifact

import "errors"

var (
	// ErrNoArtifact indicates no file matching the artifact naming convention exists
	ErrNoArtifact = errors.New("no model artifact found")

	// ErrInvalidArtifact indicates the artifact file could not be deserialized
	ErrInvalidArtifact = errors.New("invalid model artifact")

	// ErrFeatureMismatch indicates the projected row does not match the
	// feature contract the estimator was trained with
	ErrFeatureMismatch = errors.New("feature contract mismatch")
)
