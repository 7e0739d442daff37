package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/event-management-api/internal/errors"
	"github.com/yukikurage/event-management-api/internal/metrics"
	"golang.org/x/time/rate"
)

// RateLimiter implements per-IP rate limiting
type RateLimiter struct {
	name     string
	limiters map[string]*rateLimiterEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

// rateLimiterEntry wraps a rate limiter with last access time
type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewRateLimiter allows requests per window for each IP, refilling evenly across the window
func NewRateLimiter(name string, requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		name:     name,
		limiters: make(map[string]*rateLimiterEntry),
		rate:     rate.Every(window / time.Duration(requests)),
		burst:    requests,
		idle:     window,
		now:      time.Now,
	}
}

// Allow checks if a request from the given IP is allowed
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	entry, exists := rl.limiters[ip]
	if !exists {
		entry = &rateLimiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = entry
	}
	entry.lastAccess = rl.now()
	limiter := entry.limiter
	rl.mu.Unlock()

	return limiter.AllowN(rl.now(), 1)
}

// Middleware rejects requests over the limit with 429
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			metrics.RateLimitRejections.WithLabelValues(rl.name).Inc()
			apierrors.TooManyRequests(c, "Muitas requisições, tente novamente mais tarde")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Serve periodically drops limiters idle for longer than the window.
// It runs under the supervisor until ctx is cancelled.
func (rl *RateLimiter) Serve(ctx context.Context) error {
	ticker := time.NewTicker(rl.idle)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (rl *RateLimiter) String() string {
	return "ratelimit-" + rl.name
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	threshold := rl.now().Add(-rl.idle)
	for ip, entry := range rl.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(rl.limiters, ip)
		}
	}
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// RateLimits holds the per-route limiters
type RateLimits struct {
	General  *RateLimiter
	Login    *RateLimiter
	Upload   *RateLimiter
	Creation *RateLimiter
}

// DefaultRateLimits: general 100/15min, login 5/15min, uploads 10/h, event creation 5/h
func DefaultRateLimits() *RateLimits {
	return &RateLimits{
		General:  NewRateLimiter("general", 100, 15*time.Minute),
		Login:    NewRateLimiter("login", 5, 15*time.Minute),
		Upload:   NewRateLimiter("upload", 10, time.Hour),
		Creation: NewRateLimiter("event_creation", 5, time.Hour),
	}
}

// All returns every limiter, for supervision
func (r *RateLimits) All() []*RateLimiter {
	return []*RateLimiter{r.General, r.Login, r.Upload, r.Creation}
}
