// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPRequests counts handled HTTP requests by method, route and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "courseport",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests handled.",
}, []string{"method", "route", "status"})

// HTTPDuration tracks request latency by route.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "courseport",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency in seconds.",
	Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
}, []string{"method", "route"})

// EnrollmentTransitions counts enrollment state changes by target status.
var EnrollmentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "courseport",
	Subsystem: "enrollments",
	Name:      "transitions_total",
	Help:      "Total enrollment status transitions by target status.",
}, []string{"to"})

// NotificationsSent counts background notification deliveries.
var NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "courseport",
	Subsystem: "notify",
	Name:      "events_total",
	Help:      "Total notification events published by type.",
}, []string{"event"})

// CacheRequests counts read-cache lookups by outcome (hit or miss).
var CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "courseport",
	Subsystem: "cache",
	Name:      "requests_total",
	Help:      "Total response cache lookups by outcome.",
}, []string{"outcome"})

// Handler returns the /metrics scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
