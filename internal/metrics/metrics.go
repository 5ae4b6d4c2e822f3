// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crosstrainer"

// Metrics groups the application collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// httpRequests counts handled requests.
	// Labels: method, route, status
	httpRequests *prometheus.CounterVec

	// httpDuration measures request latency.
	// Labels: method, route
	httpDuration *prometheus.HistogramVec

	// scramblesServed counts scrambles handed out.
	// Labels: moves
	scramblesServed *prometheus.CounterVec

	// attemptsRecorded counts stored practice attempts.
	// Labels: outcome (success, failure, unknown)
	attemptsRecorded *prometheus.CounterVec

	// reviews counts SRS reviews.
	// Labels: passed
	reviews *prometheus.CounterVec

	// solutionCache counts reconstruction cache lookups.
	// Labels: result (hit, miss)
	solutionCache *prometheus.CounterVec

	// dueItems is the number of SRS items due, as of the last refresh.
	dueItems prometheus.Gauge
}

// New registers the collectors, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests handled",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route"}),
		scramblesServed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scrambles",
			Name:      "served_total",
			Help:      "Total scrambles served by cross move count",
		}, []string{"moves"}),
		attemptsRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "practice",
			Name:      "attempts_total",
			Help:      "Total practice attempts recorded",
		}, []string{"outcome"}),
		reviews: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "srs",
			Name:      "reviews_total",
			Help:      "Total SRS reviews recorded",
		}, []string{"passed"}),
		solutionCache: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "srs",
			Name:      "solution_cache_total",
			Help:      "Reconstruction cache lookups",
		}, []string{"result"}),
		dueItems: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "srs",
			Name:      "due_items",
			Help:      "SRS items due for review",
		}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ScramblesServed records n scrambles served at the given difficulty.
func (m *Metrics) ScramblesServed(moves, n int) {
	if m == nil {
		return
	}
	m.scramblesServed.WithLabelValues(strconv.Itoa(moves)).Add(float64(n))
}

// AttemptRecorded records a stored attempt. A nil success is "unknown".
func (m *Metrics) AttemptRecorded(success *bool) {
	if m == nil {
		return
	}
	outcome := "unknown"
	if success != nil {
		outcome = "failure"
		if *success {
			outcome = "success"
		}
	}
	m.attemptsRecorded.WithLabelValues(outcome).Inc()
}

// ReviewRecorded records an SRS review.
func (m *Metrics) ReviewRecorded(passed bool) {
	if m == nil {
		return
	}
	m.reviews.WithLabelValues(strconv.FormatBool(passed)).Inc()
}

// SolutionCacheLookup records a reconstruction cache hit or miss.
func (m *Metrics) SolutionCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.solutionCache.WithLabelValues(result).Inc()
}

// SetDueItems records the current number of due SRS items.
func (m *Metrics) SetDueItems(n int) {
	if m == nil {
		return
	}
	m.dueItems.Set(float64(n))
}
