// Package metrics registers and records Prometheus metrics for the icon
// catalog service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// MetricsNamespace is the namespace for all service metrics.
	MetricsNamespace = "icon_catalog"
)

// Metrics holds all Prometheus metrics for the service. A nil *Metrics is
// valid and records nothing, which keeps tests free of registry setup.
type Metrics struct {
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	StoreDemotionsTotal prometheus.Counter
	AssetMissingTotal   prometheus.Counter

	LookupDurationSeconds *prometheus.HistogramVec
}

// NewMetrics creates and registers all service metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "cache_hits_total",
				Help:      "Cache hits by cache name and tier",
			},
			[]string{"cache", "tier"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "cache_misses_total",
				Help:      "Full-stack cache misses by cache name",
			},
			[]string{"cache"},
		),
		StoreDemotionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "store_demotions_total",
				Help:      "Lookups demoted from the database to the flat catalog",
			},
		),
		AssetMissingTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "asset_missing_total",
				Help:      "Icons whose metadata resolved but whose SVG asset was unreadable",
			},
		),
		LookupDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Name:      "lookup_duration_seconds",
				Help:      "Resolver operation latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordCacheHit counts a hit for the named cache at the given tier.
func (m *Metrics) RecordCacheHit(cache, tier string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(cache, tier).Inc()
}

// RecordCacheMiss counts a miss across every tier of the named cache.
func (m *Metrics) RecordCacheMiss(cache string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordStoreDemotion counts a primary-store failure served by the
// catalog fallback.
func (m *Metrics) RecordStoreDemotion() {
	if m == nil {
		return
	}
	m.StoreDemotionsTotal.Inc()
}

// RecordAssetMissing counts a metadata hit whose SVG file was unreadable.
func (m *Metrics) RecordAssetMissing() {
	if m == nil {
		return
	}
	m.AssetMissingTotal.Inc()
}

// ObserveLookup records the latency of one resolver operation.
func (m *Metrics) ObserveLookup(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.LookupDurationSeconds.WithLabelValues(operation).Observe(seconds)
}
