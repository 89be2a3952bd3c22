// Package metrics exposes Prometheus instruments for splitting, merging and
// translation. A nil *Metrics records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	splits       prometheus.Counter
	chunkCounts  prometheus.Histogram
	merges       prometheus.Counter
	translations *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		splits: f.NewCounter(prometheus.CounterOpts{
			Name: "chunker_splits_total",
			Help: "Documents split into chunks.",
		}),
		chunkCounts: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "chunker_split_chunks",
			Help:    "Number of chunks produced per split.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		merges: f.NewCounter(prometheus.CounterOpts{
			Name: "chunker_merges_total",
			Help: "Chunk sets merged back into a document.",
		}),
		translations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chunker_translations_total",
			Help: "Translation requests by engine and outcome.",
		}, []string{"engine", "outcome"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chunker_translation_cache_lookups_total",
			Help: "Translated chunk cache lookups by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveSplit(chunks int) {
	if m == nil {
		return
	}
	m.splits.Inc()
	m.chunkCounts.Observe(float64(chunks))
}

func (m *Metrics) ObserveMerge() {
	if m == nil {
		return
	}
	m.merges.Inc()
}

func (m *Metrics) ObserveTranslation(engine string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.translations.WithLabelValues(engine, outcome).Inc()
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
