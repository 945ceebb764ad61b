// Package ratelimit throttles requests per client address with token buckets.
package ratelimit

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"golang.org/x/time/rate"
)

// idleTTL is how long a client's bucket is kept after its last request
const idleTTL = 10 * time.Minute

// Limiter holds one token bucket per client key
type Limiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	now       func() time.Time
	clients   map[string]*client
	lastSweep time.Time
}

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// Option configures a Limiter
type Option func(*Limiter)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New allows perMinute requests per client with bursts of up to burst
func New(perMinute, burst int, opts ...Option) *Limiter {
	l := &Limiter{
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		now:     time.Now,
		clients: make(map[string]*client),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.lastSweep = l.now()
	return l
}

// Allow takes a token from key's bucket
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > idleTTL {
		for k, c := range l.clients {
			if now.Sub(c.seen) > idleTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{lim: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.seen = now
	return c.lim.AllowN(now, 1)
}

// Tracked returns the number of clients with a live bucket
func (l *Limiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Middleware rejects requests over the limit with 429, keyed by client IP
func (l *Limiter) Middleware() gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(math.Ceil(1 / float64(l.limit))))
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.Header("Retry-After", retryAfter)
			apierr.Abort(c, apierr.RateLimited("Too many requests, try again later"))
			return
		}
		c.Next()
	}
}
