// Package prom implements ripple.MetricsProvider with Prometheus collectors.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zoobzio/ripple"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "ripple").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
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

// Metrics records ripple operator activity. Every series is labelled with the
// operator name given through ripple.WithName or the chainable Name methods.
//
// Metrics collected:
//   - ripple_state_transitions_total: rate controller transitions by name, from and to
//   - ripple_changes_received_total: upstream notifications seen by name
//   - ripple_emits_total: values forwarded downstream by name
//   - ripple_effect_duration_seconds: effect pipeline duration by name and result
//   - ripple_mailbox_request_duration_seconds: mailbox round trips by loop name
type Metrics struct {
	transitions     *prometheus.CounterVec
	changes         *prometheus.CounterVec
	emits           *prometheus.CounterVec
	effectDuration  *prometheus.HistogramVec
	mailboxDuration *prometheus.HistogramVec
}

var _ ripple.MetricsProvider = (*Metrics)(nil)

// New registers the collectors and returns the provider. Registering twice
// against the same registry panics, as with promauto.
func New(opts ...Option) *Metrics {
	cfg := Config{
		Namespace: "ripple",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "state_transitions_total",
			Help:        "Rate controller state transitions",
			ConstLabels: cfg.ConstLabels,
		}, []string{"name", "from", "to"}),

		changes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "changes_received_total",
			Help:        "Upstream notifications received by operators",
			ConstLabels: cfg.ConstLabels,
		}, []string{"name"}),

		emits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "emits_total",
			Help:        "Values forwarded downstream by operators",
			ConstLabels: cfg.ConstLabels,
		}, []string{"name"}),

		effectDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "effect_duration_seconds",
			Help:        "Effect pipeline duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"name", "result"}),

		mailboxDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "mailbox_request_duration_seconds",
			Help:        "Mailbox round trip duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"name"}),
	}
}

// OnStateChange implements ripple.MetricsProvider.
func (m *Metrics) OnStateChange(name string, from, to ripple.State) {
	m.transitions.WithLabelValues(name, from.String(), to.String()).Inc()
}

// OnChangeReceived implements ripple.MetricsProvider.
func (m *Metrics) OnChangeReceived(name string) {
	m.changes.WithLabelValues(name).Inc()
}

// OnEmit implements ripple.MetricsProvider.
func (m *Metrics) OnEmit(name string) {
	m.emits.WithLabelValues(name).Inc()
}

// OnEffectSuccess implements ripple.MetricsProvider.
func (m *Metrics) OnEffectSuccess(name string, d time.Duration) {
	m.effectDuration.WithLabelValues(name, "success").Observe(d.Seconds())
}

// OnEffectFailure implements ripple.MetricsProvider.
func (m *Metrics) OnEffectFailure(name string, d time.Duration) {
	m.effectDuration.WithLabelValues(name, "failure").Observe(d.Seconds())
}

// OnMailboxRequest implements ripple.MetricsProvider.
func (m *Metrics) OnMailboxRequest(name string, d time.Duration) {
	m.mailboxDuration.WithLabelValues(name).Observe(d.Seconds())
}
