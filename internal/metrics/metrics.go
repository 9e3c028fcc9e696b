// Package metrics exposes Prometheus collectors for team lookups.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookup results recorded by ObserveLookup.
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupError = "error"
)

// Fetch outcomes recorded by ObserveFetch.
const (
	FetchFound    = "found"
	FetchNotFound = "not_found"
	FetchError    = "error"
)

// Metrics groups the collectors registered for the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry
	lookups  *prometheus.CounterVec
	fetches  *prometheus.HistogramVec
}

// New creates and registers the collectors on a fresh registry. sizeFn, when
// non-nil, backs the cache size gauge.
func New(sizeFn func() int) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scoreline",
			Name:      "team_lookups_total",
			Help:      "Team lookups by cache result.",
		}, []string{"result"}),
		fetches: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scoreline",
			Name:      "source_fetch_duration_seconds",
			Help:      "Latency of team source fetches by outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.lookups, m.fetches)

	if sizeFn != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "scoreline",
			Name:      "team_cache_entries",
			Help:      "Number of team records currently cached.",
		}, func() float64 { return float64(sizeFn()) }))
	}

	return m
}

// ObserveLookup counts one team lookup with the given result.
func (m *Metrics) ObserveLookup(result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(result).Inc()
}

// ObserveFetch records the latency of one source fetch.
func (m *Metrics) ObserveFetch(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(outcome).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
