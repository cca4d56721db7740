package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// geocoding and routing pipeline.
type Metrics struct {
	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeNotFound    prometheus.Counter

	// Routing metrics.
	RouteRequests        *prometheus.CounterVec // labels: outcome={success,error}
	RouteAPIDuration     prometheus.Histogram
	RouteSegmentsSkipped prometheus.Counter

	// Batch metrics.
	RowsGeocoded  prometheus.Counter
	BatchRows     prometheus.Histogram
	BatchDuration prometheus.Histogram
	BatchRunning  prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeNotFound,
		m.RouteRequests,
		m.RouteAPIDuration,
		m.RouteSegmentsSkipped,
		m.RowsGeocoded,
		m.BatchRows,
		m.BatchDuration,
		m.BatchRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadbook",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadbook",
			Name:      "geocode_cache_total",
			Help:      "Geocode cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "roadbook",
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeNotFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roadbook",
			Name:      "geocode_not_found_total",
			Help:      "Rows whose candidates were all exhausted without a match.",
		}),
		RouteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadbook",
			Name:      "route_requests_total",
			Help:      "Routing API requests by outcome.",
		}, []string{"outcome"}),
		RouteAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "roadbook",
			Name:      "route_api_duration_seconds",
			Help:      "Routing API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RouteSegmentsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roadbook",
			Name:      "route_segments_skipped_total",
			Help:      "Itinerary segments omitted after routing failures.",
		}),
		RowsGeocoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roadbook",
			Name:      "rows_geocoded_total",
			Help:      "Contact rows processed by geocoding batches.",
		}),
		BatchRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "roadbook",
			Name:      "batch_rows",
			Help:      "Number of rows per geocoding batch.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "roadbook",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete geocoding batch.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		BatchRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "roadbook",
			Name:      "batch_running",
			Help:      "1 while a geocoding batch is in flight, 0 otherwise.",
		}),
	}
}
