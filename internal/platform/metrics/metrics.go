package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the catalog service.
type Metrics struct {
	FetchAttempts       *prometheus.CounterVec
	FallbackActivations prometheus.Counter
	FilterExecutions    prometheus.Counter
	RandomPicks         prometheus.Counter
	RequestDuration     *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers metrics on the given registerer. Tests pass a fresh
// registry so parallel packages do not collide on metric names.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "atlas_fetch_attempts_total",
			Help: "Remote fetch attempts partitioned by outcome (success, http_status, empty, decode, invalid_endpoint, transport).",
		}, []string{"outcome"}),
		FallbackActivations: factory.NewCounter(prometheus.CounterOpts{
			Name: "atlas_fallback_activations_total",
			Help: "Times the bundled fallback dataset replaced a failed remote load.",
		}),
		FilterExecutions: factory.NewCounter(prometheus.CounterOpts{
			Name: "atlas_filter_executions_total",
			Help: "Debounced search filter executions (not keystrokes).",
		}),
		RandomPicks: factory.NewCounter(prometheus.CounterOpts{
			Name: "atlas_random_picks_total",
			Help: "Successful random picks from the loaded dataset.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "atlas_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
