package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrymomot/kennel/internal"
)

// RateLimiter hands out one token bucket per client IP.
// Buckets idle for longer than ttl are dropped.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	swept    time.Time
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

type RateLimiterOption func(*RateLimiter)

// WithRateLimitClock replaces time.Now.
func WithRateLimitClock(now func() time.Time) RateLimiterOption {
	return func(l *RateLimiter) { l.now = now }
}

// NewRateLimiter allows perMinute requests per IP with the given burst.
func NewRateLimiter(perMinute float64, burst int, ttl time.Duration, opts ...RateLimiterOption) *RateLimiter {
	l := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Len returns the number of tracked clients.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Allow reports whether key may proceed, and if not, how long to wait.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	lim := l.limiter(key)
	now := l.now()

	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, d
	}
	return true, 0
}

// Middleware rejects over-limit requests with 429 and a Retry-After header.
func (l *RateLimiter) Middleware() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ok, wait := l.Allow(clientIP(c.Request()))
			if !ok {
				c.SetHeader("Retry-After", strconv.Itoa(max(1, int(wait.Round(time.Second).Seconds()))))
				return internal.ErrTooManyRequests("Too many requests, slow down")
			}
			return next(c)
		}
	}
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
		l.cleanup(now)
	}
	l.lastSeen[key] = now
	return lim
}

// cleanup runs with mu held, on bucket creation only, and scans the
// buckets at most once per ttl/2.
func (l *RateLimiter) cleanup(now time.Time) {
	if l.ttl <= 0 || now.Sub(l.swept) < l.ttl/2 {
		return
	}
	l.swept = now
	cutoff := now.Add(-l.ttl)
	for key, seen := range l.lastSeen {
		if seen.Before(cutoff) {
			delete(l.lastSeen, key)
			delete(l.limiters, key)
		}
	}
}

// clientIP prefers RemoteAddr as rewritten by chi's RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
