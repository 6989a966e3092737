package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the assembly pipeline.
type Metrics struct {
	Assemblies       prometheus.Counter
	ProviderFailures *prometheus.CounterVec // label: provider
	AssemblyDuration prometheus.Histogram
	OfflineDatasets  prometheus.Counter
	StaleDiscards    prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the
// default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Assemblies,
		m.ProviderFailures,
		m.AssemblyDuration,
		m.OfflineDatasets,
		m.StaleDiscards,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so
// parallel tests don't trip "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Assemblies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maranuicam",
			Name:      "assemblies_total",
			Help:      "Total dataset assemblies started.",
		}),
		ProviderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maranuicam",
			Name:      "provider_failures_total",
			Help:      "Provider fetches that failed or timed out, by provider.",
		}, []string{"provider"}),
		AssemblyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "maranuicam",
			Name:      "assembly_duration_seconds",
			Help:      "Duration of a complete dataset assembly.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		OfflineDatasets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maranuicam",
			Name:      "offline_datasets_total",
			Help:      "Assemblies where every primary provider failed and the dataset is synthetic.",
		}),
		StaleDiscards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "maranuicam",
			Name:      "stale_discards_total",
			Help:      "Completed assemblies discarded because a newer generation was already published.",
		}),
	}
}
