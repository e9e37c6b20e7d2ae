package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HusseinMoukalled/meetingroom/pkg/response"
)

// Rule is the rate limit applied to one endpoint path.
type Rule struct {
	Limit  int
	Window time.Duration
}

// DefaultRules is the platform's static endpoint table. Only listed paths
// are metered; everything else passes through.
func DefaultRules() map[string]Rule {
	return map[string]Rule{
		"/users/login":     {Limit: 10, Window: 60 * time.Second},
		"/users/register":  {Limit: 5, Window: 60 * time.Second},
		"/bookings/create": {Limit: 20, Window: 60 * time.Second},
		"/reviews/create":  {Limit: 15, Window: 60 * time.Second},
	}
}

// rateWindow tracks request timestamps for one key within the trailing window.
type rateWindow struct {
	mu    sync.Mutex
	times []time.Time
}

// SlidingWindowLimiter is an in-memory sliding-window rate limiter keyed
// by client identity and endpoint path. Windows are created lazily and
// kept for the process lifetime; growth is bounded by the number of
// distinct client/endpoint pairs.
type SlidingWindowLimiter struct {
	entries sync.Map // key -> *rateWindow
	now     func() time.Time

	totalAllowed  uint64
	totalRejected uint64
}

// NewSlidingWindowLimiter creates an empty limiter.
func NewSlidingWindowLimiter() *SlidingWindowLimiter {
	return &SlidingWindowLimiter{now: time.Now}
}

// NewSlidingWindowLimiterWithClock creates a limiter with an injected
// clock for tests.
func NewSlidingWindowLimiterWithClock(now func() time.Time) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{now: now}
}

// Allow checks whether another request fits within the limit for key.
// Timestamps older than the window are pruned first; a rejected request
// is not recorded.
func (l *SlidingWindowLimiter) Allow(key string, limit int, window time.Duration) (bool, int) {
	now := l.now()

	entry, _ := l.entries.LoadOrStore(key, &rateWindow{})
	w := entry.(*rateWindow)

	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := now.Add(-window)
	kept := w.times[:0]
	for _, t := range w.times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	w.times = kept

	if len(w.times) >= limit {
		atomic.AddUint64(&l.totalRejected, 1)
		return false, 0
	}

	w.times = append(w.times, now)
	atomic.AddUint64(&l.totalAllowed, 1)
	return true, limit - len(w.times)
}

// Stats returns the running allowed/rejected counters.
func (l *SlidingWindowLimiter) Stats() (allowed, rejected uint64) {
	return atomic.LoadUint64(&l.totalAllowed), atomic.LoadUint64(&l.totalRejected)
}

// RateLimit enforces the rule table against the limiter. The rule lookup
// strips any /v<N>/ prefix so versioned aliases share one budget, and the
// limiter key combines client IP and the normalized path.
func RateLimit(limiter *SlidingWindowLimiter, rules map[string]Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := StripVersion(c.Request.URL.Path)

		rule, ok := rules[path]
		if !ok {
			c.Next()
			return
		}

		key := c.ClientIP() + ":" + path
		windowSecs := int(rule.Window / time.Second)

		allowed, remaining := limiter.Allow(key, rule.Limit, rule.Window)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		c.Header("X-RateLimit-Window", strconv.Itoa(windowSecs))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(windowSecs))
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED",
				fmt.Sprintf("Rate limit exceeded. Maximum %d requests per %d seconds.", rule.Limit, windowSecs),
				gin.H{"retry_after": windowSecs},
			)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Next()
	}
}
