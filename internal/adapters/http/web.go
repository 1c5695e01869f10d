// Package web serves the site over HTTP: every page request mounts the page,
// applies the visitor's stored preferences and renders the result.
package web

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aula/internal/adapters/http/middleware"
	"aula/internal/adapters/http/perf"
	"aula/internal/adapters/metrics"
	"aula/internal/adapters/storage/preference"
	"aula/internal/application/speech"
)

// Options configures the site server.
type Options struct {
	Site               fs.FS
	Store              preference.Store
	Collector          *perf.Collector
	Secret             []byte
	SecureCookies      bool
	TrustedOrigins     []string
	RateLimitPerSecond int // 0 disables rate limiting
	SlowRequest        time.Duration
	Locale             string
	WelcomeDelay       time.Duration
	ExposePerf         bool
	Health             func(ctx context.Context) error
}

type server struct {
	opts Options
	site *Site
}

// NewMux wires the site's routes and middleware. Background work started
// here stops when ctx is done.
// PRE: opts.Site, opts.Store and opts.Secret are set
// POST: returns a handler serving pages, assets, /healthz and /metrics
func NewMux(ctx context.Context, opts Options) (http.Handler, error) {
	if opts.Site == nil || opts.Store == nil || len(opts.Secret) == 0 {
		return nil, errors.New("web: site, store and secret are required")
	}
	if opts.Locale == "" {
		opts.Locale = speech.DefaultLocale
	}
	if opts.Collector == nil {
		opts.Collector = perf.NewCollector(perf.DefaultRingSize)
	}
	s := &server{opts: opts, site: NewSite(opts.Site)}

	csrfKey, err := middleware.DeriveKey(opts.Secret, "csrf", 32)
	if err != nil {
		return nil, err
	}
	profiles, err := middleware.NewProfileCookie(opts.Secret, opts.SecureCookies)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.Timing(middleware.TimingOptions{
		Collector:    opts.Collector,
		SlowRequest:  opts.SlowRequest,
		Observe:      metrics.ObserveRequest,
		SkipPrefixes: []string{"/assets/", "/metrics", "/healthz"},
	}))
	r.Use(middleware.SecurityHeaders)
	if opts.RateLimitPerSecond > 0 {
		limiter := middleware.NewRateLimiter(ctx, opts.RateLimitPerSecond, time.Second)
		limiter.OnReject = func(string) { metrics.RateLimitedTotal.Inc() }
		r.Use(middleware.RateLimit(limiter))
	}

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	if opts.ExposePerf {
		r.Get("/debug/perf", s.handlePerf)
	}
	r.Handle("/assets/*", http.FileServerFS(opts.Site))

	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF(csrfKey, middleware.CSRFOptions{
			Secure:         opts.SecureCookies,
			TrustedOrigins: opts.TrustedOrigins,
		}))
		r.Use(profiles.Middleware)
		r.Get("/*", s.handlePage)
		r.Post("/*", s.handlePage)
	})

	return r, nil
}
