package api

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v5"
	"golang.org/x/time/rate"
)

// RateLimitConfig sets a token bucket per client address. A zero Limit
// disables limiting.
type RateLimitConfig struct {
	Limit rate.Limit
	Burst int
	// IdleTTL drops buckets for clients not seen for this long.
	IdleTTL time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	clients map[string]*clientLimiter
	lastGC  time.Time
	now     func() time.Time
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	if cfg.Burst <= 0 {
		cfg.Burst = max(1, int(math.Ceil(float64(cfg.Limit))))
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	return &rateLimiter{
		cfg:     cfg,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// reserve reports whether key may proceed, and if not how long to wait.
func (r *rateLimiter) reserve(key string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastGC) > r.cfg.IdleTTL {
		for k, cl := range r.clients {
			if now.Sub(cl.lastSeen) > r.cfg.IdleTTL {
				delete(r.clients, k)
			}
		}
		r.lastGC = now
	}

	cl, ok := r.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(r.cfg.Limit, r.cfg.Burst)}
		r.clients[key] = cl
	}
	cl.lastSeen = now

	res := cl.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, 0
	}
	delay := res.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	res.CancelAt(now)
	return false, delay
}

// RateLimit rejects requests with 429 once a client's bucket is empty.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	rl := newRateLimiter(cfg)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			ok, wait := rl.reserve(c.RealIP())
			if ok {
				return next(c)
			}
			if wait > 0 {
				secs := int(math.Ceil(wait.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
			}
			return writeError(c, http.StatusTooManyRequests, "rate_limit_error", "too many requests")
		}
	}
}
