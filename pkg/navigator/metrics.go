package navigator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transition tier labels reported by metrics and traces.
const (
	tierNone    = "none"
	tierInPage  = "in_page"
	tierPartial = "partial"
	tierFull    = "full"
)

// MetricsConfig configures the Prometheus transition metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "roomnav").
	Namespace string

	// Subsystem is the metrics subsystem (default: "navigator").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for transition duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus transition metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "roomnav",
		Subsystem: "navigator",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus metrics for the navigator.
type Metrics struct {
	transitionsTotal   *prometheus.CounterVec
	transitionDuration *prometheus.HistogramVec
	scopeWatchers      prometheus.Gauge
}

// NewMetrics creates and registers the navigator metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		transitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transitions_total",
			Help:        "Total number of page transitions by tier and status",
			ConstLabels: config.ConstLabels,
		}, []string{"tier", "status"}),

		transitionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transition_duration_seconds",
			Help:        "Page transition duration in seconds by tier",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"tier"}),

		scopeWatchers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "scope_watchers",
			Help:        "Number of registered scope watchers",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// observeTransition records one finished navigation attempt.
func (n *Navigator) observeTransition(tier string, err error, d time.Duration) {
	if n.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	n.metrics.transitionsTotal.WithLabelValues(tier, status).Inc()
	n.metrics.transitionDuration.WithLabelValues(tier).Observe(d.Seconds())
}

// observeWatcherCount publishes the watcher-list length.
// Caller holds n.mu.
func (n *Navigator) observeWatcherCount() {
	if n.metrics == nil {
		return
	}
	n.metrics.scopeWatchers.Set(float64(len(n.watchers)))
}
