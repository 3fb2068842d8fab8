// Package ratelimit provides per-client admission control for expensive routes.
package ratelimit

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// ClientLimiter bounds each client to n requests per window using a token
// bucket with burst capacity n, refilled at n per window. This behaves as a
// sliding window: n immediate requests are admitted, request n+1 inside the
// same window is rejected without blocking, and full capacity returns one
// window after exhaustion. Idle client buckets are evicted after clientTTL.
type ClientLimiter struct {
	mu        sync.Mutex
	limiters  *cache.Cache
	limit     rate.Limit
	burst     int
	clientTTL time.Duration
}

// NewClientLimiter creates a limiter admitting n requests per window per client
func NewClientLimiter(n int, window time.Duration, clientTTL time.Duration) *ClientLimiter {
	if clientTTL <= 0 {
		clientTTL = 10 * time.Minute
	}
	return &ClientLimiter{
		limiters:  cache.New(clientTTL, 2*clientTTL),
		limit:     rate.Limit(float64(n) / window.Seconds()),
		burst:     n,
		clientTTL: clientTTL,
	}
}

// Allow reports whether the client may proceed, consuming one token if so.
// It never blocks waiting for capacity.
func (l *ClientLimiter) Allow(clientID string) bool {
	return l.limiterFor(clientID).Allow()
}

// limiterFor returns the client's bucket, creating it on first sight.
// The critical section is a map lookup plus touch, never an I/O wait.
func (l *ClientLimiter) limiterFor(clientID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry, found := l.limiters.Get(clientID); found {
		// Keep active clients resident
		l.limiters.Set(clientID, entry, l.clientTTL)
		return entry.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(l.limit, l.burst)
	l.limiters.Set(clientID, limiter, l.clientTTL)
	return limiter
}

// Clients returns the number of tracked client buckets
func (l *ClientLimiter) Clients() int {
	return l.limiters.ItemCount()
}
