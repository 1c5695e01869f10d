package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/csrf"
)

// RateLimiter is a per-client token bucket.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // tokens per interval
	interval time.Duration // refill interval
	now      func() time.Time

	// OnReject is called with the client key of every rejected request.
	OnReject func(key string)
}

type visitor struct {
	tokens   int
	lastSeen time.Time
}

// NewRateLimiter allows rate requests per interval per client. Idle clients
// are forgotten until ctx is done.
// PRE: rate > 0, interval > 0
func NewRateLimiter(ctx context.Context, rate int, interval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		interval: interval,
		now:      time.Now,
	}
	go rl.sweep(ctx)
	return rl
}

func (rl *RateLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			for key, v := range rl.visitors {
				if rl.now().Sub(v.lastSeen) > 5*time.Minute {
					delete(rl.visitors, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Allow takes a token for key.
// PRE: key is non-empty
// POST: returns false when the bucket is empty
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, exists := rl.visitors[key]
	if !exists {
		rl.visitors[key] = &visitor{tokens: rl.rate - 1, lastSeen: now}
		return true
	}

	refill := int(now.Sub(v.lastSeen)/rl.interval) * rl.rate
	if refill > 0 {
		v.tokens = min(v.tokens+refill, rl.rate)
		v.lastSeen = now
	}

	if v.tokens <= 0 {
		return false
	}
	v.tokens--
	return true
}

// RateLimit returns middleware that rejects clients over their budget.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !limiter.Allow(key) {
				slog.Warn("rate_limit_exceeded", "client", key, "path", r.URL.Path)
				if limiter.OnReject != nil {
					limiter.OnReject(key)
				}
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SecurityHeaders adds OWASP recommended headers. Pages load only same-origin
// scripts; the speech shim is served from the site's assets.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self'; img-src 'self' data:; frame-ancestors 'none'")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// CSRFOptions configures CSRF.
type CSRFOptions struct {
	Secure         bool // false serves plain HTTP, as in development
	TrustedOrigins []string
}

// CSRF returns middleware that rejects state-changing requests without a
// valid token. The token for a page is available through csrf.Token.
// PRE: authKey is 32 bytes
func CSRF(authKey []byte, opts CSRFOptions) func(http.Handler) http.Handler {
	protect := csrf.Protect(
		authKey,
		csrf.Secure(opts.Secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.TrustedOrigins(opts.TrustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("csrf_rejected", "path", r.URL.Path, "reason", csrf.FailureReason(r))
			http.Error(w, "Forbidden", http.StatusForbidden)
		})),
	)

	return func(next http.Handler) http.Handler {
		h := protect(next)
		if opts.Secure {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

// Chain applies middlewares in order (outer to inner).
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
