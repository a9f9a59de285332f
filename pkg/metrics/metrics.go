// Package metrics exports reconciliation measurements to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// Config configures the Prometheus recorder.
type Config struct {
	// Namespace is the metrics namespace (default: "vtree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for cycle duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus recorder.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "vtree",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Recorder implements vdom.Recorder with Prometheus collectors.
//
// Metrics collected:
//   - vtree_target_ops_total: Counter of live tree operations by op
//   - vtree_cycles_total: Counter of component updates by component and outcome
//   - vtree_cycle_duration_seconds: Histogram of update duration by component
//   - vtree_hook_errors_total: Counter of failed lifecycle hooks by component and hook
type Recorder struct {
	ops           *prometheus.CounterVec
	cycles        *prometheus.CounterVec
	cycleDuration *prometheus.HistogramVec
	hookErrors    *prometheus.CounterVec
}

// New registers the collectors and returns a Recorder.
func New(opts ...Option) *Recorder {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Recorder{
		ops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "target_ops_total",
			Help:        "Total number of live tree operations applied",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycles_total",
			Help:        "Total number of component update cycles",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "outcome"}),

		cycleDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycle_duration_seconds",
			Help:        "Component update duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"component"}),

		hookErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "hook_errors_total",
			Help:        "Total number of failed lifecycle hooks",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "hook"}),
	}
}

// RecordOp implements vdom.Recorder.
func (r *Recorder) RecordOp(op vdom.Op) {
	r.ops.WithLabelValues(string(op)).Inc()
}

// RecordCycle implements vdom.Recorder.
func (r *Recorder) RecordCycle(component string, outcome vdom.Outcome, d time.Duration) {
	r.cycles.WithLabelValues(component, string(outcome)).Inc()
	r.cycleDuration.WithLabelValues(component).Observe(d.Seconds())
}

// RecordHookError implements vdom.Recorder.
func (r *Recorder) RecordHookError(component, hook string) {
	r.hookErrors.WithLabelValues(component, hook).Inc()
}

var _ vdom.Recorder = (*Recorder)(nil)
