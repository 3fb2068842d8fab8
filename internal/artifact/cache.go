package artifact

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// CachedResolver is a freshness-checked alternative to DirResolver. Every call
// still re-scans the directory, but the decoded estimator is reused while the
// selected path and modification time are unchanged, skipping only the
// deserialization. A newly trained artifact is therefore still effective on
// the very next request. Enabled via the model.cache_enabled config flag.
type CachedResolver struct {
	mu      sync.Mutex
	entries *cache.Cache
	ttl     time.Duration
}

// NewCachedResolver creates a resolver whose decoded estimators are evicted
// after ttl of disuse
func NewCachedResolver(ttl time.Duration) *CachedResolver {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedResolver{
		entries: cache.New(ttl, 2*ttl),
		ttl:     ttl,
	}
}

// Resolve returns the current artifact for dir, reusing the cached decode
// when the directory still selects the same file with the same mtime
func (r *CachedResolver) Resolve(dir string) (*ModelArtifact, error) {
	path, modTime, err := selectCurrent(dir)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, found := r.entries.Get(dir); found {
		cached := entry.(*ModelArtifact)
		if cached.Path == path && cached.ModTime.Equal(modTime) {
			r.entries.Set(dir, cached, r.ttl)
			return cached, nil
		}
	}

	estimator, err := decode(path)
	if err != nil {
		return nil, err
	}

	resolved := &ModelArtifact{
		Path:      path,
		ModTime:   modTime,
		Estimator: estimator,
	}
	r.entries.Set(dir, resolved, r.ttl)
	return resolved, nil
}
