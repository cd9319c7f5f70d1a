package middleware

import (
	"sync"
	"time"

	"auditnet-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures a per-client token bucket.
type RateLimitConfig struct {
	PerSecond float64
	Burst     int
	// IdleTTL drops buckets of clients not seen for this long. Default 5m.
	IdleTTL time.Duration
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimit limits requests per client IP with a token bucket and answers 429 when empty.
func RateLimit(cfg RateLimitConfig) fiber.Handler {
	if cfg.PerSecond <= 0 {
		cfg.PerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 5 * time.Minute
	}

	var (
		mu        sync.Mutex
		buckets   = make(map[string]*bucket)
		lastSweep = time.Now()
	)
	allow := func(ip string) bool {
		mu.Lock()
		defer mu.Unlock()
		now := time.Now()
		if now.Sub(lastSweep) > cfg.IdleTTL {
			for k, b := range buckets {
				if now.Sub(b.seen) > cfg.IdleTTL {
					delete(buckets, k)
				}
			}
			lastSweep = now
		}
		b, ok := buckets[ip]
		if !ok {
			b = &bucket{lim: rate.NewLimiter(rate.Limit(cfg.PerSecond), cfg.Burst)}
			buckets[ip] = b
		}
		b.seen = now
		return b.lim.Allow()
	}

	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if ip == "" {
			ip = "unknown"
		}
		if !allow(ip) {
			c.Set(fiber.HeaderRetryAfter, "1")
			return response.Error(c, "Too many requests, please try again later", fiber.StatusTooManyRequests, nil)
		}
		return c.Next()
	}
}
