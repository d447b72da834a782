package ripple

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on rate controller, effect and
// mailbox activity. The name argument is the operator name set with WithName.
type MetricsProvider interface {
	// OnStateChange is called when a rate controller transitions between states.
	OnStateChange(name string, from, to State)

	// OnChangeReceived is called for every upstream notification an operator sees.
	OnChangeReceived(name string)

	// OnEmit is called when an operator forwards a value downstream.
	OnEmit(name string)

	// OnEffectSuccess is called when an effect pipeline completes.
	OnEffectSuccess(name string, duration time.Duration)

	// OnEffectFailure is called when an effect pipeline fails.
	OnEffectFailure(name string, duration time.Duration)

	// OnMailboxRequest is called when a mailbox request completes on its loop.
	// Duration spans submission to completion.
	OnMailboxRequest(name string, duration time.Duration)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_ string, _, _ State)         {}
func (NoOpMetricsProvider) OnChangeReceived(_ string)                  {}
func (NoOpMetricsProvider) OnEmit(_ string)                            {}
func (NoOpMetricsProvider) OnEffectSuccess(_ string, _ time.Duration)  {}
func (NoOpMetricsProvider) OnEffectFailure(_ string, _ time.Duration)  {}
func (NoOpMetricsProvider) OnMailboxRequest(_ string, _ time.Duration) {}
