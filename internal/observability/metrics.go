package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the weather
// client. They are exposed by the optional debug HTTP server.
type Metrics struct {
	SearchRequests   *prometheus.CounterVec   // labels: outcome={success,error,empty,skipped}
	ForecastRequests *prometheus.CounterVec   // labels: outcome={success,error}
	APIDuration      *prometheus.HistogramVec // labels: endpoint={geocoding,forecast,geoip}

	SnapshotsInstalled  prometheus.Counter
	StaleFetchesDropped prometheus.Counter
	PersistWrites       prometheus.Counter
	PersistErrors       prometheus.Counter
}

// NewMetrics creates and registers all client metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.SearchRequests,
		m.ForecastRequests,
		m.APIDuration,
		m.SnapshotsInstalled,
		m.StaleFetchesDropped,
		m.PersistWrites,
		m.PersistErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, so
// parallel tests cannot trip "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SearchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skycast",
			Name:      "search_requests_total",
			Help:      "Geocoding search requests by outcome.",
		}, []string{"outcome"}),
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skycast",
			Name:      "forecast_requests_total",
			Help:      "Forecast fetches by outcome.",
		}, []string{"outcome"}),
		APIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "skycast",
			Name:      "api_duration_seconds",
			Help:      "Remote API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		SnapshotsInstalled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skycast",
			Name:      "snapshots_installed_total",
			Help:      "Weather snapshots installed into the store.",
		}),
		StaleFetchesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skycast",
			Name:      "stale_fetches_dropped_total",
			Help:      "Fetch results discarded because a newer fetch superseded them.",
		}),
		PersistWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skycast",
			Name:      "persist_writes_total",
			Help:      "Successful writes of the persisted state envelope.",
		}),
		PersistErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skycast",
			Name:      "persist_errors_total",
			Help:      "Failed writes of the persisted state envelope.",
		}),
	}
}
