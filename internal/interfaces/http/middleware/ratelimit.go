package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gradguide/backend/internal/infrastructure/telemetry"
	"github.com/gradguide/backend/internal/interfaces/http/dto"
)

// RateLimiter is a fixed-window request counter per client key
type RateLimiter struct {
	name   string
	limit  int
	window time.Duration

	mu      sync.Mutex
	clients map[string]*client
	now     func() time.Time

	stopChan  chan struct{}
	closeOnce sync.Once
}

type client struct {
	used      int
	windowEnd time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window.
// name labels the window in metrics, e.g. "hour" or "day".
func NewRateLimiter(name string, limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		name:     name,
		limit:    limit,
		window:   window,
		clients:  make(map[string]*client),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	go rl.cleanupLoop(cleanupInterval(window))
	return rl
}

func cleanupInterval(window time.Duration) time.Duration {
	if window > time.Hour {
		return time.Hour
	}
	return window
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopChan:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for key, c := range rl.clients {
		if !now.Before(c.windowEnd) {
			delete(rl.clients, key)
		}
	}
}

// Close stops the cleanup goroutine
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.stopChan) })
}

// Name returns the window label
func (rl *RateLimiter) Name() string { return rl.name }

// Limit returns the requests allowed per window
func (rl *RateLimiter) Limit() int { return rl.limit }

// Allow counts a request for key. It returns whether the request fits, the
// requests left in the window and when the window resets.
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int, reset time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, ok := rl.clients[key]
	if !ok || !now.Before(c.windowEnd) {
		c = &client{windowEnd: now.Add(rl.window)}
		rl.clients[key] = c
	}
	if c.used >= rl.limit {
		return false, 0, c.windowEnd
	}
	c.used++
	return true, rl.limit - c.used, c.windowEnd
}

// RateLimit rejects a client IP once any of the limiters is exhausted.
// Each limiter counts the request independently.
func RateLimit(metrics *telemetry.AppMetrics, limiters ...*RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		tightestLimit, tightestRemaining := 0, math.MaxInt
		for _, rl := range limiters {
			allowed, remaining, reset := rl.Allow(key)
			if !allowed {
				metrics.RateLimited(c.Request.Context(), rl.Name())
				retry := int(math.Ceil(time.Until(reset).Seconds()))
				if retry < 1 {
					retry = 1
				}
				c.Header("Retry-After", strconv.Itoa(retry))
				c.Header("X-RateLimit-Limit", strconv.Itoa(rl.Limit()))
				c.Header("X-RateLimit-Remaining", "0")
				c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeRateLimited,
					"Too many requests. Please try again later.",
					GetRequestID(c),
				))
				return
			}
			if remaining < tightestRemaining {
				tightestLimit, tightestRemaining = rl.Limit(), remaining
			}
		}

		if len(limiters) > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(tightestLimit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(tightestRemaining))
		}
		c.Next()
	}
}
