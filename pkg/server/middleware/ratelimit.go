package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"mercator-hq/vendorgate/pkg/config"
	"mercator-hq/vendorgate/pkg/telemetry/logging"
)

// maxTrackedClients bounds the bucket map. Beyond it, idle (full) buckets
// are dropped.
const maxTrackedClients = 10000

// tokenBucket allows bursts up to capacity while holding the average rate
// at refillRate tokens per second.
type tokenBucket struct {
	capacity   float64
	tokens     float64
	refillRate float64
	lastRefill time.Time
}

func (b *tokenBucket) refill(now time.Time) {
	if elapsed := now.Sub(b.lastRefill).Seconds(); elapsed > 0 {
		b.tokens = math.Min(b.capacity, b.tokens+elapsed*b.refillRate)
		b.lastRefill = now
	}
}

// take consumes one token. When none is available it returns the wait
// until the next one.
func (b *tokenBucket) take(now time.Time) (bool, time.Duration) {
	b.refill(now)
	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	wait := (1 - b.tokens) / b.refillRate
	return false, time.Duration(wait * float64(time.Second))
}

// RateLimiter holds one token bucket per client.
type RateLimiter struct {
	rate    float64
	burst   float64
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*tokenBucket
}

// NewRateLimiter creates a limiter allowing rps requests per second with
// bursts of burst per client.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		rate:    rps,
		burst:   float64(burst),
		now:     time.Now,
		buckets: make(map[string]*tokenBucket),
	}
}

// Allow reports whether client may proceed, and otherwise how long it
// should wait.
func (l *RateLimiter) Allow(client string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[client]
	if !ok {
		if len(l.buckets) >= maxTrackedClients {
			l.evictIdleLocked(now)
		}
		b = &tokenBucket{capacity: l.burst, tokens: l.burst, refillRate: l.rate, lastRefill: now}
		l.buckets[client] = b
	}
	return b.take(now)
}

func (l *RateLimiter) evictIdleLocked(now time.Time) {
	for k, b := range l.buckets {
		b.refill(now)
		if b.tokens >= b.capacity {
			delete(l.buckets, k)
		}
	}
}

// RateLimitMiddleware answers 429 with Retry-After once a client exceeds
// its rate. Clients are keyed by authenticated name, falling back to the
// remote IP. It is a no-op when cfg is nil or disabled.
func RateLimitMiddleware(cfg *config.RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg == nil || !cfg.Enabled || cfg.RequestsPerSecond <= 0 {
			return next
		}
		limiter := NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := limiter.Allow(clientKey(r))
			if !ok {
				seconds := int(math.Ceil(wait.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				WriteError(w, r, http.StatusTooManyRequests, ErrorTypeRateLimited, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if name := logging.GetClient(r.Context()); name != "" {
		return "client:" + name
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
