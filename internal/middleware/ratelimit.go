package middleware

import (
	"net/http"
	"sync"
	"time"

	"resortdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type rateLimitEntry struct {
	count     int
	resetTime time.Time
}

// RateLimiter is a fixed-window counter keyed by client identifier.
type RateLimiter struct {
	entries map[string]*rateLimitEntry
	mu      sync.Mutex
	window  time.Duration
	limit   int
	now     func() time.Time
}

func NewRateLimiter(window time.Duration, limit int) *RateLimiter {
	return &RateLimiter{
		entries: make(map[string]*rateLimitEntry),
		window:  window,
		limit:   limit,
		now:     time.Now,
	}
}

// Allow reports whether the identifier may make another request in the
// current window.
func (rl *RateLimiter) Allow(identifier string) bool {
	if identifier == "" {
		identifier = "anonymous"
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	entry, exists := rl.entries[identifier]
	if !exists || now.After(entry.resetTime) {
		rl.entries[identifier] = &rateLimitEntry{count: 1, resetTime: now.Add(rl.window)}
		return true
	}

	if entry.count >= rl.limit {
		return false
	}
	entry.count++
	return true
}

// Cleanup drops expired windows. Called from the background worker so the
// map does not grow with one-off clients.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, entry := range rl.entries {
		if now.After(entry.resetTime) {
			delete(rl.entries, key)
		}
	}
}

func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.entries)
}

// RateLimit rejects clients that exceed the per-IP request budget.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
