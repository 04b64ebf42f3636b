package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/llmgate/errors"
	"github.com/kbukum/llmgate/logger"
)

// Counter counts requests per key in fixed windows. redis.Counter and
// MemoryCounter implement it.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// MaxRequests is the number of requests allowed per key per window.
	MaxRequests int
	// Window is the fixed window length.
	Window time.Duration
	// Counter stores the counts. Defaults to a MemoryCounter.
	Counter Counter
	// KeyFunc extracts the rate limit key from a request. Defaults to client IP.
	KeyFunc func(*gin.Context) string
	Log     *logger.Logger
}

// RateLimit allows MaxRequests per key per Window and answers 429 beyond
// that. Probe paths are exempt and counter failures let the request through.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 500
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Hour
	}
	if cfg.Counter == nil {
		cfg.Counter = NewMemoryCounter()
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPBasedKey
	}
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	limit := strconv.Itoa(cfg.MaxRequests)

	return func(c *gin.Context) {
		if isProbePath(c.Request.URL.Path) {
			c.Next()
			return
		}
		key := cfg.KeyFunc(c)
		count, resetIn, err := cfg.Counter.Incr(c.Request.Context(), key, cfg.Window)
		if err != nil {
			cfg.Log.WithContext(c.Request.Context()).WithError(err).Warn("Rate limit counter failed", logger.Fields("key", key))
			c.Next()
			return
		}

		remaining := int64(cfg.MaxRequests) - count
		if remaining < 0 {
			remaining = 0
		}
		resetSecs := strconv.FormatInt(int64((resetIn+time.Second-1)/time.Second), 10)
		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", limit)
		h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		h.Set("X-RateLimit-Reset", resetSecs)

		if count > int64(cfg.MaxRequests) {
			h.Set("Retry-After", resetSecs)
			abortWithError(c, apperrors.RateLimited().WithDetail("retry_after_seconds", resetSecs))
			return
		}
		c.Next()
	}
}

// IPBasedKey extracts the client IP for use as a rate limit key.
func IPBasedKey(c *gin.Context) string {
	return c.ClientIP()
}

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryCounter is a process-local Counter. Expired windows are swept
// lazily.
type MemoryCounter struct {
	mu        sync.Mutex
	windows   map[string]*window
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryCounter creates an empty MemoryCounter.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{windows: make(map[string]*window), now: time.Now}
}

// Incr implements Counter.
func (m *MemoryCounter) Incr(_ context.Context, key string, win time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= win {
		m.sweep(now)
	}

	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(win)}
		m.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt.Sub(now), nil
}

func (m *MemoryCounter) sweep(now time.Time) {
	for k, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, k)
		}
	}
	m.lastSweep = now
}
