// Package ratelimit provides LoginRateLimiter, a per-IP brute-force guard
// for the login endpoint.
//
// Each IP gets a token bucket from golang.org/x/time/rate holding
// maxAttempts tokens that refill evenly over window. A successful login
// calls Reset so a legitimate user never stays locked out. A background
// goroutine drops buckets that have been idle for longer than window.
//
// The package has no dependencies inside the module, so both handlers and
// middleware can import it without a cycle.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginRateLimiter limits login attempts per client IP.
//
//	limiter := NewLoginRateLimiter(5, 2*time.Minute)
//	defer limiter.Stop()
//	if !limiter.Allow(ip) { return 429 }
//	limiter.Reset(ip) // after a successful login
type LoginRateLimiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	maxAttempts int
	window      time.Duration
	every       rate.Limit

	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewLoginRateLimiter creates a limiter and starts its cleanup goroutine.
// Call Stop when the server shuts down.
func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	rl := &LoginRateLimiter{
		visitors:    make(map[string]*visitor),
		maxAttempts: maxAttempts,
		window:      window,
		every:       rate.Every(window / time.Duration(maxAttempts)),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	go rl.cleanupLoop(time.Minute)

	return rl
}

// Allow consumes one attempt for ip and reports whether it is permitted.
func (rl *LoginRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	return rl.visitorLocked(ip, now).limiter.AllowN(now, 1)
}

// Reset forgets every attempt recorded for ip.
func (rl *LoginRateLimiter) Reset(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.visitors, ip)
}

// RetryAfterSeconds returns how long ip must wait for its next attempt,
// rounded up to whole seconds. Used for the Retry-After header.
func (rl *LoginRateLimiter) RetryAfterSeconds(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		return 0
	}

	now := rl.now()
	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return int(rl.window.Seconds())
	}
	delay := r.DelayFrom(now)
	r.CancelAt(now)

	if delay <= 0 {
		return 0
	}
	return int(delay/time.Second) + 1
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (rl *LoginRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

func (rl *LoginRateLimiter) visitorLocked(ip string, now time.Time) *visitor {
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.every, rl.maxAttempts)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v
}

func (rl *LoginRateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanup drops visitors idle for a full window; their bucket is full again
// by then, so forgetting them changes nothing.
func (rl *LoginRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.window {
			delete(rl.visitors, ip)
		}
	}
}

// ExtractIP returns the client IP of r.
//
// Order: first entry of X-Forwarded-For, then X-Real-IP, then RemoteAddr.
// Behind a reverse proxy RemoteAddr is always the proxy itself.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage renders a wait in seconds for humans, e.g. "2 minute(s)".
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
