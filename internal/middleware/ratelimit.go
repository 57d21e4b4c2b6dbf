package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter implements a simple sliding-window rate limiter per client.
type RateLimiter struct {
	mu      sync.Mutex
	seen    map[string][]time.Time
	limit   int
	window  time.Duration
	cleanup time.Time
}

// NewRateLimiter creates a new rate limiter allowing limit requests per
// window for each client.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		seen:    make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		cleanup: time.Now().Add(window),
	}
}

// Allow checks if a request from the given client is allowed
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.After(rl.cleanup) {
		rl.prune(now)
		rl.cleanup = now.Add(rl.window)
	}

	valid := rl.recentRequests(client, now)
	if len(valid) >= rl.limit {
		rl.seen[client] = valid
		return false
	}

	rl.seen[client] = append(valid, now)
	return true
}

// recentRequests returns the client's request times still inside the window.
func (rl *RateLimiter) recentRequests(client string, now time.Time) []time.Time {
	var valid []time.Time
	for _, t := range rl.seen[client] {
		if now.Sub(t) < rl.window {
			valid = append(valid, t)
		}
	}
	return valid
}

// prune drops clients with no requests inside the window. Runs inline
// under the lock instead of in a background goroutine; the map stays
// small for this workload.
func (rl *RateLimiter) prune(now time.Time) {
	for client := range rl.seen {
		if valid := rl.recentRequests(client, now); len(valid) == 0 {
			delete(rl.seen, client)
		} else {
			rl.seen[client] = valid
		}
	}
}

// RateLimit middleware limits requests per client IP
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(limit, window)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
