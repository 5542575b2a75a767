package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per user. Chat turns are expensive
// (each one is a model call), so the default budget is far below a generic
// API limit.
type RateLimiter struct {
	mu     sync.RWMutex
	limits map[string]*rate.Limiter

	interval time.Duration
	burst    int
}

// NewRateLimiter creates a limiter allowing one request per interval with
// the given burst per key.
func NewRateLimiter(interval time.Duration, burst int) *RateLimiter {
	if interval <= 0 {
		interval = time.Second
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limits:   make(map[string]*rate.Limiter),
		interval: interval,
		burst:    burst,
	}
}

// NewChatRateLimiter returns the limiter used for conversation turns:
// 2 per second with a burst of 10 per user.
func NewChatRateLimiter() *RateLimiter {
	return NewRateLimiter(time.Second/2, 10)
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.RLock()
	limiter, ok := rl.limits[key]
	rl.mu.RUnlock()
	if ok {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if limiter, ok := rl.limits[key]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(rate.Every(rl.interval), rl.burst)
	rl.limits[key] = limiter
	return limiter
}

// AllowUser checks if a request is allowed for the given user ID.
func (rl *RateLimiter) AllowUser(userID int32) bool {
	return rl.getLimiter(fmt.Sprintf("user:%d", userID)).Allow()
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Wait blocks until a request is allowed or the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context, key string) error {
	return rl.getLimiter(key).Wait(ctx)
}
