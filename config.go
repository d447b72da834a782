package ripple

import "github.com/zoobzio/clockz"

// config holds the settings shared by operators that own timers or report
// metrics.
type config struct {
	clock   clockz.Clock
	name    string
	metrics MetricsProvider
}

// Option configures an operator such as Debounce, Throttle or Cache.
type Option func(*config)

// WithClock sets the clock used for timers.
// Use this with clockz.FakeClock for deterministic tests.
func WithClock(clock clockz.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithName labels the operator in signals and metrics.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithMetrics reports operator activity to m.
func WithMetrics(m MetricsProvider) Option {
	return func(c *config) {
		c.metrics = m
	}
}

func newConfig(kind string, opts []Option) config {
	cfg := config{
		clock:   clockz.RealClock,
		name:    kind,
		metrics: NoOpMetricsProvider{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.metrics == nil {
		cfg.metrics = NoOpMetricsProvider{}
	}
	return cfg
}
