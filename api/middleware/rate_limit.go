package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/xcelerate-fit/xcelerate-backend/api/responses"
	pkgerrors "github.com/xcelerate-fit/xcelerate-backend/pkg/errors"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/logger"
)

// RateLimitPolicy configures the per-client token bucket.
type RateLimitPolicy struct {
	Requests int
	Window   time.Duration
	IdleTTL  time.Duration
}

func (p RateLimitPolicy) enabled() bool {
	return p.Requests > 0 && p.Window > 0
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters holds one bucket per client key and drops buckets idle past the TTL.
type clientLimiters struct {
	mu        sync.Mutex
	clients   map[string]*limiterEntry
	policy    RateLimitPolicy
	lastSweep time.Time
	now       func() time.Time
}

func newClientLimiters(policy RateLimitPolicy) *clientLimiters {
	if policy.IdleTTL <= 0 {
		policy.IdleTTL = 10 * time.Minute
	}
	return &clientLimiters{
		clients: make(map[string]*limiterEntry),
		policy:  policy,
		now:     time.Now,
	}
}

func (c *clientLimiters) allow(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) > c.policy.IdleTTL {
		for k, entry := range c.clients {
			if now.Sub(entry.lastSeen) > c.policy.IdleTTL {
				delete(c.clients, k)
			}
		}
		c.lastSweep = now
	}

	entry, ok := c.clients[key]
	if !ok {
		every := rate.Every(c.policy.Window / time.Duration(c.policy.Requests))
		entry = &limiterEntry{limiter: rate.NewLimiter(every, c.policy.Requests)}
		c.clients[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// RateLimit throttles authenticated callers per user id, falling back to the client IP.
func RateLimit(policy RateLimitPolicy, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() {
			return next
		}
		limiters := newClientLimiters(policy)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := UserIDFromContext(r.Context())
			if key == "" {
				key = "ip:" + clientIP(r)
			}
			if !limiters.allow(key) {
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "limit", policy.Requests), "rate_limit.blocked")
				}
				w.Header().Set("Retry-After", "1")
				responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
