// Package metrics exposes Prometheus collectors for provider calls, caches, and matching.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "talentmatch"

// Outcomes recorded for provider calls.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeNoMatch = "no_match"
	OutcomeFailed  = "failed"
)

// Metrics owns a registry and the application collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	providerCalls    *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	matchDuration    prometheus.Histogram
	matchResults     prometheus.Histogram
	postingsExcluded prometheus.Counter
}

// New creates the collectors on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "External provider calls by component, provider and outcome.",
		}, []string{"component", "provider", "outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by component and result.",
		}, []string{"component", "result"}),
		matchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_duration_seconds",
			Help:      "Time spent ranking postings for one candidate.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		matchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_results",
			Help:      "Number of matches returned per call.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 50},
		}),
		postingsExcluded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "postings_excluded_total",
			Help:      "Postings dropped from ranking because they could not be embedded.",
		}),
	}
	m.registry.MustRegister(
		m.providerCalls,
		m.cacheLookups,
		m.matchDuration,
		m.matchResults,
		m.postingsExcluded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ProviderCall counts one call to an external provider.
func (m *Metrics) ProviderCall(component, provider, outcome string) {
	if m == nil {
		return
	}
	m.providerCalls.WithLabelValues(component, provider, outcome).Inc()
}

// CacheLookup counts a cache hit or miss.
func (m *Metrics) CacheLookup(component string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(component, result).Inc()
}

// ObserveMatch records one ranking call.
func (m *Metrics) ObserveMatch(d time.Duration, returned, excluded int) {
	if m == nil {
		return
	}
	m.matchDuration.Observe(d.Seconds())
	m.matchResults.Observe(float64(returned))
	m.postingsExcluded.Add(float64(excluded))
}
