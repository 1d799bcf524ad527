// Package middleware provides the HTTP middleware cafefront wires in front
// of its pages.
package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/cafefront/pkg/response"
)

// window is a fixed-window request count for one client.
type window struct {
	count   int
	resetAt time.Time
}

// RateLimiter counts requests per client IP in fixed windows.
type RateLimiter struct {
	mu      sync.Mutex
	max     int
	period  time.Duration
	clients map[string]*window
	now     func() time.Time
}

// NewRateLimiter allows max requests per client in every period.
func NewRateLimiter(max int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		max:     max,
		period:  period,
		clients: map[string]*window{},
		now:     time.Now,
	}
}

// Allow records one request from key and reports whether it is within the
// limit. Expired windows are swept on the way.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for k, w := range rl.clients {
		if now.After(w.resetAt) {
			delete(rl.clients, k)
		}
	}

	w, ok := rl.clients[key]
	if !ok {
		w = &window{resetAt: now.Add(rl.period)}
		rl.clients[key] = w
	}
	w.count++
	return w.count <= rl.max
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	retry := strconv.Itoa(int(rl.period.Seconds()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(ClientIP(r)) {
			response.TooManyRequests(w, retry)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit returns a middleware that limits each IP to max requests per period.
//
//	r.Post("/login", "auth.attempt", h, middleware.RateLimit(10, time.Minute))
func RateLimit(max int, period time.Duration) func(http.Handler) http.Handler {
	return NewRateLimiter(max, period).Middleware
}

// ClientIP is the first X-Forwarded-For hop, or the remote address without
// its port.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
