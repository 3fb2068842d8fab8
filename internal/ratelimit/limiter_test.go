package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestAllowWithinBudget tests that n requests pass and request n+1 is rejected
func TestAllowWithinBudget(t *testing.T) {
	limiter := NewClientLimiter(5, time.Minute, time.Minute)

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow("client-a"), "request %d should be admitted", i+1)
	}
	assert.False(t, limiter.Allow("client-a"), "request over budget should be rejected")
}

// TestAllowIndependentClients tests that one client's exhaustion does not
// affect another's budget
func TestAllowIndependentClients(t *testing.T) {
	limiter := NewClientLimiter(2, time.Minute, time.Minute)

	assert.True(t, limiter.Allow("client-a"))
	assert.True(t, limiter.Allow("client-a"))
	assert.False(t, limiter.Allow("client-a"))

	assert.True(t, limiter.Allow("client-b"))
	assert.True(t, limiter.Allow("client-b"))
}

// TestAllowRefill tests that capacity returns after the window elapses
func TestAllowRefill(t *testing.T) {
	limiter := NewClientLimiter(2, 100*time.Millisecond, time.Minute)

	assert.True(t, limiter.Allow("client-a"))
	assert.True(t, limiter.Allow("client-a"))
	assert.False(t, limiter.Allow("client-a"))

	time.Sleep(120 * time.Millisecond)
	assert.True(t, limiter.Allow("client-a"), "budget should refill after the window")
}

func TestClientsTracked(t *testing.T) {
	limiter := NewClientLimiter(1, time.Minute, time.Minute)

	limiter.Allow("client-a")
	limiter.Allow("client-b")
	limiter.Allow("client-a")

	assert.Equal(t, 2, limiter.Clients())
}
