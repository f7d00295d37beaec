// Package metrics exposes Prometheus collectors for the scoring pipeline
// and sitemap generation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ItemsScored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "content_items_scored_total",
			Help: "Total number of content items scored.",
		},
	)
	ScoreDistribution = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_quality_score",
			Help:    "Distribution of computed quality scores.",
			Buckets: []float64{10, 25, 50, 70, 85, 100},
		},
	)
	BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_batch_score_duration_seconds",
			Help:    "Duration of batch scoring runs in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	SitemapBuilds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sitemap_builds_total",
			Help: "Total number of sitemap builds.",
		},
	)
	SitemapEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sitemap_entries",
			Help: "Number of entries in the most recently built sitemap.",
		},
	)
	SitemapSourceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitemap_source_failures_total",
			Help: "Total number of dynamic source fetch failures, labeled by source.",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(ItemsScored)
	prometheus.MustRegister(ScoreDistribution)
	prometheus.MustRegister(BatchDuration)
	prometheus.MustRegister(SitemapBuilds)
	prometheus.MustRegister(SitemapEntries)
	prometheus.MustRegister(SitemapSourceFailures)
}
