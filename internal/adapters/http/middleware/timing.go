package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"aula/internal/adapters/http/perf"
)

// DefaultSlowRequest is the threshold above which a request is logged as slow.
const DefaultSlowRequest = 200 * time.Millisecond

// RequestObserver receives the outcome of every timed request. route is the
// matched chi pattern, or the raw path when nothing matched.
type RequestObserver func(method, route string, status int, d time.Duration)

// TimingOptions configures Timing.
type TimingOptions struct {
	Collector    *perf.Collector
	SlowRequest  time.Duration
	Observe      RequestObserver
	SkipPrefixes []string
}

var requestIDCounter atomic.Uint64

// statusWriter captures the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates.
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

var statusWriterPool = sync.Pool{
	New: func() any { return &statusWriter{} },
}

// Timing returns middleware that logs and records request durations.
// Requests under SkipPrefixes are passed through untimed. Normal requests log
// at DEBUG, slow ones at WARN.
func Timing(opts TimingOptions) func(http.Handler) http.Handler {
	threshold := opts.SlowRequest
	if threshold <= 0 {
		threshold = DefaultSlowRequest
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			for _, prefix := range opts.SkipPrefixes {
				if strings.HasPrefix(path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			start := time.Now()
			reqID := requestIDCounter.Add(1)

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				d := time.Since(start)
				durationMs := float64(d.Microseconds()) / 1000.0
				route := routePattern(r)

				level := slog.LevelDebug
				msg := "request"
				if d >= threshold {
					level, msg = slog.LevelWarn, "slow_request"
				}
				slog.Log(r.Context(), level, msg,
					"request_id", reqID,
					"method", r.Method,
					"path", path,
					"status", sw.status,
					"duration_ms", durationMs,
				)

				if opts.Collector != nil {
					opts.Collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Path:       r.Method + " " + route,
						StatusCode: sw.status,
						DurationMs: durationMs,
						Timestamp:  start,
					})
				}
				if opts.Observe != nil {
					opts.Observe(r.Method, route, sw.status, d)
				}

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
