// Package metrics exposes the server's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aula_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aula_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	PageRendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aula_page_renders_total",
		Help: "Pages rendered, by source format",
	}, []string{"format"})

	PageActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aula_page_actions_total",
		Help: "Page events dispatched, by action and whether a control handled them",
	}, []string{"action", "handled"})

	AnnouncementsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aula_announcements_total",
		Help: "Utterances handed to the client speech shim",
	})

	PrefWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aula_pref_write_failures_total",
		Help: "Preference writes the store rejected",
	})

	StoreQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aula_store_query_duration_seconds",
		Help:    "Preference store query duration",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"op"})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aula_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)

// ObserveRequest records one HTTP request.
func ObserveRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveQuery records one preference store query.
func ObserveQuery(op string, d time.Duration) {
	StoreQueryDuration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveAction records one dispatched page event.
func ObserveAction(action string, handled bool) {
	PageActionsTotal.WithLabelValues(action, strconv.FormatBool(handled)).Inc()
}
