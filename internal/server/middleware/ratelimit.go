package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// clientMaxAge is how long an idle client's limiter is kept.
	clientMaxAge = 10 * time.Minute
	// maxClients bounds the limiter table; the least recently seen client
	// is evicted first.
	maxClients = 1024
)

// RateLimitConfig configures a token bucket per client address.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type clientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientEntry
	rps       rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	return &clientLimiter{
		clients: make(map[string]*clientEntry),
		rps:     rate.Limit(rps),
		burst:   max(burst, 1),
		now:     time.Now,
	}
}

func (l *clientLimiter) allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > clientMaxAge {
		l.sweep(now)
	}

	e, ok := l.clients[client]
	if !ok {
		if len(l.clients) >= maxClients {
			l.evictOldest()
		}
		e = &clientEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[client] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// sweep drops idle clients. Callers hold l.mu.
func (l *clientLimiter) sweep(now time.Time) {
	for k, e := range l.clients {
		if now.Sub(e.lastSeen) > clientMaxAge {
			delete(l.clients, k)
		}
	}
	l.lastSweep = now
}

// evictOldest drops the least recently seen client. Callers hold l.mu.
func (l *clientLimiter) evictOldest() {
	var oldest string
	var oldestAt time.Time
	for k, e := range l.clients {
		if oldest == "" || e.lastSeen.Before(oldestAt) {
			oldest, oldestAt = k, e.lastSeen
		}
	}
	delete(l.clients, oldest)
}

// RateLimit rejects requests beyond the configured rate with 429. Clients
// are keyed by remote host; forwarding headers are ignored because the
// server is meant to be reached directly.
func RateLimit(config RateLimitConfig) Middleware {
	if !config.Enabled || config.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	limiter := newClientLimiter(config.RequestsPerSecond, config.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.allow(clientHost(r)) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
