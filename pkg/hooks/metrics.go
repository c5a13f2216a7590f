package hooks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the scheduler's Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "hooks").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
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

// MetricsOption configures Metrics.
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

// WithBuckets sets the render duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
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
		Namespace: "hooks",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the scheduler's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram
	gateSkips      prometheus.Counter
	effects        *prometheus.CounterVec
	batches        prometheus.Counter
	errors         *prometheus.CounterVec
	staleWrites    prometheus.Counter
	mounted        prometheus.Gauge
}

// NewMetrics registers the scheduler metrics:
//   - hooks_renders_total: renders by result (ok, render_error, hook_order)
//   - hooks_render_duration_seconds: render function duration
//   - hooks_gate_skips_total: props updates skipped by a memoized gate
//   - hooks_effects_total: effect callbacks and cleanups run, by phase
//   - hooks_batches_total: committed batches
//   - hooks_errors_total: reported errors by kind
//   - hooks_stale_writes_total: writes dropped after unmount
//   - hooks_mounted_instances: currently mounted instances
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of instance renders by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render function duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		gateSkips: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "gate_skips_total",
			Help:        "Total number of props updates skipped by a memoized gate",
			ConstLabels: config.ConstLabels,
		}),

		effects: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_total",
			Help:        "Total number of effect callbacks and cleanups run",
			ConstLabels: config.ConstLabels,
		}, []string{"phase"}),

		batches: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "batches_total",
			Help:        "Total number of committed batches",
			ConstLabels: config.ConstLabels,
		}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "errors_total",
			Help:        "Total number of reported errors by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		staleWrites: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "stale_writes_total",
			Help:        "Total number of state writes dropped after unmount",
			ConstLabels: config.ConstLabels,
		}),

		mounted: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mounted_instances",
			Help:        "Number of currently mounted instances",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) recordRender(result string, seconds float64) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(result).Inc()
	m.renderDuration.Observe(seconds)
}

func (m *Metrics) recordGateSkip() {
	if m != nil {
		m.gateSkips.Inc()
	}
}

func (m *Metrics) recordEffect(phase EffectPhase) {
	if m != nil {
		m.effects.WithLabelValues(string(phase)).Inc()
	}
}

func (m *Metrics) recordBatch() {
	if m != nil {
		m.batches.Inc()
	}
}

func (m *Metrics) recordError(err error) {
	if m != nil {
		m.errors.WithLabelValues(errorKind(err)).Inc()
	}
}

func (m *Metrics) recordStaleWrite() {
	if m != nil {
		m.staleWrites.Inc()
	}
}

func (m *Metrics) mountedDelta(d float64) {
	if m != nil {
		m.mounted.Add(d)
	}
}

// errorKind maps an error to a low-cardinality label.
func errorKind(err error) string {
	switch err.(type) {
	case *HookOrderViolation:
		return "hook_order"
	case *RenderError:
		return "render"
	case *EffectError:
		return "effect"
	case *StaleWriteError:
		return "stale_write"
	case *stormError:
		return "storm"
	default:
		return "other"
	}
}
