package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the planner.
type Metrics struct {
	// Static site.
	PageRequests *prometheus.CounterVec // labels: view={login,register,profile,fallback,asset}, status

	// Allergy warnings.
	WarningsGenerated *prometheus.CounterVec // labels: outcome={issued,declined}
	WarningAllergens  prometheus.Histogram
	AllergyMatches    prometheus.Counter

	// Backend API.
	BackendRequests  *prometheus.CounterVec   // labels: endpoint, outcome={success,error}
	BackendDuration  *prometheus.HistogramVec // labels: endpoint
	DestinationCache *prometheus.CounterVec   // labels: result={hit,miss}

	// Activity sink.
	ActivityRecorded *prometheus.CounterVec // labels: sink, outcome={success,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates all metrics and registers them with reg.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.PageRequests,
		m.WarningsGenerated,
		m.WarningAllergens,
		m.AllergyMatches,
		m.BackendRequests,
		m.BackendDuration,
		m.DestinationCache,
		m.ActivityRecorded,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PageRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travel_planner",
			Name:      "page_requests_total",
			Help:      "Static site requests by resolved view and status code.",
		}, []string{"view", "status"}),
		WarningsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travel_planner",
			Name:      "allergy_warnings_total",
			Help:      "Allergy warning simulations by outcome.",
		}, []string{"outcome"}),
		WarningAllergens: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "travel_planner",
			Name:      "allergy_warning_allergens",
			Help:      "Number of allergens per issued warning report.",
			Buckets:   []float64{1, 2, 3},
		}),
		AllergyMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "travel_planner",
			Name:      "allergy_matches_total",
			Help:      "User allergies matched against issued warnings.",
		}),
		BackendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travel_planner",
			Name:      "backend_requests_total",
			Help:      "Backend API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		BackendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "travel_planner",
			Name:      "backend_request_duration_seconds",
			Help:      "Backend API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		DestinationCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travel_planner",
			Name:      "destination_cache_total",
			Help:      "Destination cache lookups by result.",
		}, []string{"result"}),
		ActivityRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travel_planner",
			Name:      "activity_recorded_total",
			Help:      "Activity records sent to the configured sink by outcome.",
		}, []string{"sink", "outcome"}),
	}
}
