package host

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// MetricsConfig configures host metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "livetree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "host").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures host metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "livetree",
		Subsystem: "host",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records host lifecycle and patch activity. A nil *Metrics
// records nothing.
type Metrics struct {
	hostsCreated   *prometheus.CounterVec
	hostsDestroyed *prometheus.CounterVec
	liveHosts      *prometheus.GaugeVec
	funcReruns     prometheus.Counter
	patches        *prometheus.CounterVec
	bulkClears     prometheus.Counter
	renderDuration prometheus.Histogram
}

// NewMetrics creates and registers the host metrics.
//
// Metrics collected:
//   - livetree_host_created_total: Counter of hosts created by kind
//   - livetree_host_destroyed_total: Counter of hosts destroyed by kind
//   - livetree_host_live: Gauge of mounted hosts by kind
//   - livetree_host_func_reruns_total: Counter of function host re-runs
//   - livetree_host_patches_total: Counter of collection patches applied by op
//   - livetree_host_bulk_clears_total: Counter of whole-run clears
//   - livetree_host_render_duration_seconds: Histogram of root render time
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		hostsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "created_total",
			Help:        "Total number of hosts created",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		hostsDestroyed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "destroyed_total",
			Help:        "Total number of hosts destroyed",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		liveHosts: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live",
			Help:        "Number of hosts created and not yet destroyed",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		funcReruns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "func_reruns_total",
			Help:        "Total number of function host re-runs",
			ConstLabels: config.ConstLabels,
		}),

		patches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_total",
			Help:        "Total number of collection patches applied",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		bulkClears: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bulk_clears_total",
			Help:        "Total number of runs cleared by replacing the container's children",
			ConstLabels: config.ConstLabels,
		}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Root render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

func (m *Metrics) hostCreated(kind Kind) {
	if m == nil {
		return
	}
	m.hostsCreated.WithLabelValues(kind.String()).Inc()
	m.liveHosts.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) hostDestroyed(kind Kind) {
	if m == nil {
		return
	}
	m.hostsDestroyed.WithLabelValues(kind.String()).Inc()
	m.liveHosts.WithLabelValues(kind.String()).Dec()
}

func (m *Metrics) funcRerun() {
	if m == nil {
		return
	}
	m.funcReruns.Inc()
}

func (m *Metrics) patchApplied(op reactive.Op) {
	if m == nil {
		return
	}
	m.patches.WithLabelValues(op.String()).Inc()
}

func (m *Metrics) bulkClear() {
	if m == nil {
		return
	}
	m.bulkClears.Inc()
}

func (m *Metrics) observeRender(seconds float64) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(seconds)
}
