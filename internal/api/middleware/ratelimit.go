package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterTTL          = 15 * time.Minute
	limiterPruneTrigger = 1024
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP with a token bucket.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	every    rate.Limit
	burst    int
}

// NewRateLimiter allows perMinute requests per client with the given burst.
// A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	rl := &RateLimiter{limiters: make(map[string]*limiterEntry)}
	if perMinute > 0 {
		rl.every = rate.Every(time.Minute / time.Duration(perMinute))
		rl.burst = burst
		if rl.burst <= 0 {
			rl.burst = 1
		}
	}
	return rl
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if entry, ok := rl.limiters[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	if len(rl.limiters) >= limiterPruneTrigger {
		for k, entry := range rl.limiters {
			if now.Sub(entry.lastSeen) > limiterTTL {
				delete(rl.limiters, k)
			}
		}
	}

	limiter := rate.NewLimiter(rl.every, rl.burst)
	rl.limiters[key] = &limiterEntry{limiter: limiter, lastSeen: now}
	return limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.every == 0 {
			c.Next()
			return
		}

		limiter := rl.limiter(c.ClientIP())
		if !limiter.Allow() {
			retry := time.Duration(float64(time.Second) / float64(rl.every))
			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests, try again later"})
			return
		}
		c.Next()
	}
}
