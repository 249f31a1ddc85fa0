// Package observability exposes Prometheus metrics for the HTTP surface and
// the query layer.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process metric instruments. A nil *Metrics is a no-op
// on every method, so instrumentation can be optional in tests.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	queryDuration *prometheus.HistogramVec
	rateLimitHits *prometheus.CounterVec
}

// New creates and registers the metric instruments on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salescope_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "salescope_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "salescope_query_duration_seconds",
			Help:    "Sales query latency by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		rateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salescope_rate_limit_hits_total",
			Help: "Requests rejected by a rate limiter.",
		}, []string{"limiter"}),
	}

	reg.MustRegister(m.httpRequests, m.httpDuration, m.queryDuration, m.rateLimitHits)
	reg.MustRegister(collectors.NewGoCollector())

	return m
}

// Handler serves the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest counts one finished HTTP request.
func (m *Metrics) RecordRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveQuery records the latency of one orchestrated query operation.
func (m *Metrics) ObserveQuery(operation string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.queryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// RecordRateLimitHit counts a rejection by the named limiter.
func (m *Metrics) RecordRateLimitHit(limiter string) {
	if m == nil {
		return
	}
	m.rateLimitHits.WithLabelValues(limiter).Inc()
}
