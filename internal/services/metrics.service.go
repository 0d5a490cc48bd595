package services

import (
	"killprocess/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts pipeline activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	SearchesTotal   *prometheus.CounterVec
	ResultsTotal    *prometheus.CounterVec
	IconCacheHits   prometheus.Counter
	ManifestReads   prometheus.Counter
	ManifestErrors  prometheus.Counter
	ListingDuration prometheus.Histogram
}

// NewMetrics creates metrics on a private registry so several instances can
// coexist in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "killprocess_searches_total",
				Help: "Total number of searches by outcome",
			},
			[]string{"outcome"},
		),
		ResultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "killprocess_results_total",
				Help: "Total number of result items by application type",
			},
			[]string{"type"},
		),
		IconCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "killprocess_icon_cache_hits_total",
			Help: "Icon lookups answered from the per-run cache",
		}),
		ManifestReads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "killprocess_manifest_reads_total",
			Help: "Bundle manifests read from disk",
		}),
		ManifestErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "killprocess_manifest_errors_total",
			Help: "Bundle manifests that could not be read or parsed",
		}),
		ListingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "killprocess_listing_duration_seconds",
			Help:    "Time spent obtaining the process table",
			Buckets: prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		m.SearchesTotal,
		m.ResultsTotal,
		m.IconCacheHits,
		m.ManifestReads,
		m.ManifestErrors,
		m.ListingDuration,
	)
	return m
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) recordSearch(outcome string) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) recordResults(items []models.ClassifiedApplication) {
	if m == nil {
		return
	}
	for _, item := range items {
		m.ResultsTotal.WithLabelValues(item.Type.String()).Inc()
	}
}

func (m *Metrics) recordCacheHit() {
	if m == nil {
		return
	}
	m.IconCacheHits.Inc()
}

func (m *Metrics) recordManifestRead(failed bool) {
	if m == nil {
		return
	}
	m.ManifestReads.Inc()
	if failed {
		m.ManifestErrors.Inc()
	}
}

func (m *Metrics) observeListing(seconds float64) {
	if m == nil {
		return
	}
	m.ListingDuration.Observe(seconds)
}
