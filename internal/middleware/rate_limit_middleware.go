package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// clientState is the request counter of one client address.
type clientState struct {
	windowStart  time.Time
	requestCount int
}

// RateLimiter caps the number of requests one IP address may send per
// window. It is a coarse flood guard in front of the API; the per-session
// comment cooldown is enforced by the engine.
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	now         func() time.Time

	mu      sync.Mutex
	clients map[string]*clientState
}

func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
		clients:     make(map[string]*clientState),
	}
}

// exempt lists requests that must never be throttled here: reaction
// toggles are cheap and frequent.
func exempt(r *http.Request) bool {
	return strings.Contains(r.URL.Path, "/reactions/") || strings.HasSuffix(r.URL.Path, "/like")
}

func (l *RateLimiter) allow(ip string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.clients[ip]
	if !ok || now.Sub(state.windowStart) > l.window {
		state = &clientState{windowStart: now}
		l.clients[ip] = state
	}
	state.requestCount++
	return state.requestCount <= l.maxRequests
}

// Cleanup forgets clients idle for two windows.
func (l *RateLimiter) Cleanup() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, state := range l.clients {
		if now.Sub(state.windowStart) > 2*l.window {
			delete(l.clients, ip)
		}
	}
}

// Middleware enforces the limit. A limiter with maxRequests <= 0 lets
// everything through.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.maxRequests <= 0 || exempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !l.allow(ip) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Run calls Cleanup every window until done is closed.
func (l *RateLimiter) Run(done <-chan struct{}) {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}
