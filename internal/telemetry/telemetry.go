package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the instrumentation for the feed poll loop.
type Metrics struct {
	FeedFetchSeconds *prometheus.HistogramVec
	FeedFetchesTotal *prometheus.CounterVec
	FeedErrorsTotal  *prometheus.CounterVec
	CycleSeconds     prometheus.Histogram
	PresenceScans    prometheus.Counter
}

// NewMetrics registers the traindash collectors on the given registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	metrics := &Metrics{
		FeedFetchSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "traindash_feed_fetch_seconds",
				Help:    "Time to fetch and decode one GTFS-RT feed group",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"group"},
		),
		FeedFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "traindash_feed_fetches_total",
				Help: "Feed group fetch attempts per cycle",
			},
			[]string{"group"},
		),
		FeedErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "traindash_feed_errors_total",
				Help: "Feed groups that failed to fetch or parse",
			},
			[]string{"group"},
		),
		CycleSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "traindash_cycle_seconds",
				Help:    "Duration of one full arrival aggregation cycle",
				Buckets: prometheus.DefBuckets,
			},
		),
		PresenceScans: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "traindash_presence_scans_total",
				Help: "Presence scans that went past the cache",
			},
		),
	}

	registry.MustRegister(
		metrics.FeedFetchSeconds,
		metrics.FeedFetchesTotal,
		metrics.FeedErrorsTotal,
		metrics.CycleSeconds,
		metrics.PresenceScans,
	)

	return metrics
}

// NewRegistry creates a registry preloaded with the standard runtime
// collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// Handler returns the exposition handler for the registry.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
