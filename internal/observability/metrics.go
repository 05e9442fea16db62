package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline and the scoring read path.
type Metrics struct {
	ItemsFetched      *prometheus.CounterVec // label: source
	IncidentsInserted *prometheus.CounterVec // label: source
	IncidentsSkipped  *prometheus.CounterVec // label: source
	FetchErrors       *prometheus.CounterVec // label: source
	WriteErrors       *prometheus.CounterVec // label: source
	PublishErrors     prometheus.Counter

	RunDuration *prometheus.HistogramVec // label: source
	BatchSize   prometheus.Histogram

	ScoreRequests prometheus.Counter
	ScoreDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.ItemsFetched,
		m.IncidentsInserted,
		m.IncidentsSkipped,
		m.FetchErrors,
		m.WriteErrors,
		m.PublishErrors,
		m.RunDuration,
		m.BatchSize,
		m.ScoreRequests,
		m.ScoreDuration,
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
		ItemsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident_etl",
			Name:      "items_fetched_total",
			Help:      "Total raw items fetched from each source.",
		}, []string{"source"}),
		IncidentsInserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident_etl",
			Name:      "incidents_inserted_total",
			Help:      "Total new incidents persisted per source.",
		}, []string{"source"}),
		IncidentsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident_etl",
			Name:      "incidents_skipped_total",
			Help:      "Total items skipped as duplicates per source.",
		}, []string{"source"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident_etl",
			Name:      "fetch_errors_total",
			Help:      "Total failed source fetches.",
		}, []string{"source"}),
		WriteErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident_etl",
			Name:      "write_errors_total",
			Help:      "Total failed store writes.",
		}, []string{"source"}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_etl",
			Name:      "publish_errors_total",
			Help:      "Total failed downstream publishes of inserted incidents.",
		}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "incident_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-classify-write run per source.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "incident_etl",
			Name:      "batch_size",
			Help:      "Number of candidate incidents per source run.",
			Buckets:   []float64{1, 5, 10, 20, 30, 50, 75, 100, 200},
		}),
		ScoreRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_etl",
			Name:      "score_requests_total",
			Help:      "Total stability score computations served.",
		}),
		ScoreDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "incident_etl",
			Name:      "score_duration_seconds",
			Help:      "Duration of a stability score computation.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
	}
}
