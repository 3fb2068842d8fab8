package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// artifactPattern is the naming convention for serialized model files; the
// embedded timestamp is informational, selection goes by modification time.
const artifactPattern = "model_*.json"

// ModelArtifact is a resolved, deserialized model file
type ModelArtifact struct {
	Path      string
	ModTime   time.Time
	Estimator *Estimator
}

// Resolver selects and deserializes the current model artifact for a directory
type Resolver interface {
	Resolve(dir string) (*ModelArtifact, error)
}

// DirResolver resolves fresh on every call: it re-scans the directory and
// re-deserializes the selected file, so a newly trained artifact is effective
// on the very next request at the cost of per-call decode latency.
type DirResolver struct{}

// NewResolver creates the default uncached resolver
func NewResolver() *DirResolver {
	return &DirResolver{}
}

// Resolve scans dir for files matching the artifact naming convention and
// returns the one with the maximum modification time, deserialized. Equal
// modification times are broken by picking the lexicographically last
// filename so resolution stays reproducible.
func (r *DirResolver) Resolve(dir string) (*ModelArtifact, error) {
	path, modTime, err := selectCurrent(dir)
	if err != nil {
		return nil, err
	}

	estimator, err := decode(path)
	if err != nil {
		return nil, err
	}

	return &ModelArtifact{
		Path:      path,
		ModTime:   modTime,
		Estimator: estimator,
	}, nil
}

// StatCurrent returns the path and modification time of the current artifact
// without deserializing it. Monitoring uses this to probe freshness cheaply.
func StatCurrent(dir string) (string, time.Time, error) {
	return selectCurrent(dir)
}

// selectCurrent picks the current artifact path without deserializing it
func selectCurrent(dir string) (string, time.Time, error) {
	matches, err := filepath.Glob(filepath.Join(dir, artifactPattern))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to scan artifact directory: %w", err)
	}
	if len(matches) == 0 {
		return "", time.Time{}, fmt.Errorf("%w: %s/%s", ErrNoArtifact, dir, artifactPattern)
	}

	var (
		bestPath string
		bestTime time.Time
	)
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("failed to stat artifact %s: %w", path, err)
		}
		if bestPath == "" || info.ModTime().After(bestTime) ||
			(info.ModTime().Equal(bestTime) && path > bestPath) {
			bestPath = path
			bestTime = info.ModTime()
		}
	}

	return bestPath, bestTime, nil
}

func decode(path string) (*Estimator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	estimator := &Estimator{}
	if err := json.Unmarshal(data, estimator); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArtifact, path, err)
	}
	if err := estimator.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return estimator, nil
}
