package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// attemptLimiter tracks failed attempts per key with a token bucket: each
// failure spends a token and burst tokens refill evenly over window.
type attemptLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	attempts map[string]*rate.Limiter
}

func newAttemptLimiter(window time.Duration, burst int) *attemptLimiter {
	if burst < 1 {
		burst = 1
	}
	return &attemptLimiter{
		limit:    rate.Every(window / time.Duration(burst)),
		burst:    burst,
		attempts: make(map[string]*rate.Limiter),
	}
}

func (limiter *attemptLimiter) tooManyRecent(key string, now time.Time) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	bucket, ok := limiter.attempts[key]
	if !ok {
		return false
	}
	return bucket.TokensAt(now) < 1
}

func (limiter *attemptLimiter) addFailure(key string, now time.Time) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	limiter.pruneLocked(now)
	bucket, ok := limiter.attempts[key]
	if !ok {
		bucket = rate.NewLimiter(limiter.limit, limiter.burst)
		limiter.attempts[key] = bucket
	}
	bucket.AllowN(now, 1)
}

func (limiter *attemptLimiter) reset(key string) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	delete(limiter.attempts, key)
}

// pruneLocked drops buckets that have fully refilled.
func (limiter *attemptLimiter) pruneLocked(now time.Time) {
	for key, bucket := range limiter.attempts {
		if bucket.TokensAt(now) >= float64(limiter.burst) {
			delete(limiter.attempts, key)
		}
	}
}

func requestLimiterKey(c *fiber.Ctx) string {
	key := strings.TrimSpace(c.IP())
	if key == "" {
		return "unknown"
	}
	return key
}
