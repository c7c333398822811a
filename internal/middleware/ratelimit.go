package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

type ipBucket struct {
	hits    int
	resetAt time.Time
}

// IPRateLimiter throttles unauthenticated endpoints (signup, login) per
// client IP with a fixed window kept in memory. Authenticated traffic uses
// UserRateLimiter instead.
type IPRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*ipBucket
	limit   int
	window  time.Duration
}

func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	l := &IPRateLimiter{
		buckets: make(map[string]*ipBucket),
		limit:   limit,
		window:  window,
	}
	go l.sweep()
	return l
}

// sweep drops expired buckets so the map does not grow with every IP ever seen.
func (l *IPRateLimiter) sweep() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		for ip, b := range l.buckets {
			if now.After(b.resetAt) {
				delete(l.buckets, ip)
			}
		}
		l.mu.Unlock()
	}
}

func (l *IPRateLimiter) allow(ip string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[ip]
	if !ok || now.After(b.resetAt) {
		l.buckets[ip] = &ipBucket{hits: 1, resetAt: now.Add(l.window)}
		return true
	}
	b.hits++
	return b.hits <= l.limit
}

func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.allow(ip) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
