// Package dataset provides loading and lookup over the historical match snapshot.
package dataset

import "errors"

var (
	// ErrNotFound indicates no row matches the requested pair and date
	ErrNotFound = errors.New("no matching match record")

	// ErrSnapshotMissing indicates the snapshot file does not exist
	ErrSnapshotMissing = errors.New("dataset snapshot not found")

	// ErrSchema indicates the snapshot does not carry the expected columns
	ErrSchema = errors.New("dataset schema mismatch")
)
