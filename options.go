package ripple

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// EffectOption wraps the pipeline of an Effect with middleware for retry,
// timeout, circuit breaking and other reliability patterns.
//
// Instance configuration (name, sync mode, metrics, etc.) is handled via
// chainable methods on the Effect before calling Start().
type EffectOption[T any] func(pipz.Chainable[*Change[T]]) pipz.Chainable[*Change[T]]

// buildPipeline wraps a terminal with pipeline options.
func buildPipeline[T any](terminal pipz.Chainable[*Change[T]], opts []EffectOption[T]) pipz.Chainable[*Change[T]] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// WithRetry retries a failed run immediately, up to maxAttempts times in total.
// For delays between attempts, use WithBackoff instead.
func WithRetry[T any](maxAttempts int) EffectOption[T] {
	return func(p pipz.Chainable[*Change[T]]) pipz.Chainable[*Change[T]] {
		return pipz.NewRetry("retry", p, maxAttempts)
	}
}

// WithBackoff retries a failed run with exponentially growing delays:
// baseDelay, 2*baseDelay, 4*baseDelay, etc.
func WithBackoff[T any](maxAttempts int, baseDelay time.Duration) EffectOption[T] {
	return func(p pipz.Chainable[*Change[T]]) pipz.Chainable[*Change[T]] {
		return pipz.NewBackoff("backoff", p, maxAttempts, baseDelay)
	}
}

// WithTimeout fails a run that takes longer than d. The effect function sees
// the deadline on its context.
func WithTimeout[T any](d time.Duration) EffectOption[T] {
	return func(p pipz.Chainable[*Change[T]]) pipz.Chainable[*Change[T]] {
		return pipz.NewTimeout("timeout", p, d)
	}
}

// WithFallback tries each fallback in order when the effect fails.
func WithFallback[T any](fallbacks ...pipz.Chainable[*Change[T]]) EffectOption[T] {
	return func(p pipz.Chainable[*Change[T]]) pipz.Chainable[*Change[T]] {
		all := append([]pipz.Chainable[*Change[T]]{p}, fallbacks...)
		return pipz.NewFallback("fallback", all...)
	}
}

// WithCircuitBreaker opens the circuit after 'failures' consecutive failures
// and rejects runs until 'recovery' has passed, then lets one run through to
// probe.
//
// The breaker is stateful and shared by every run of the effect.
func WithCircuitBreaker[T any](failures int, recovery time.Duration) EffectOption[T] {
	return func(p pipz.Chainable[*Change[T]]) pipz.Chainable[*Change[T]] {
		return pipz.NewCircuitBreaker("circuit-breaker", p, failures, recovery)
	}
}

// WithErrorHandler passes failures to handler for logging or alerting.
// The error still propagates.
func WithErrorHandler[T any](handler pipz.Chainable[*pipz.Error[*Change[T]]]) EffectOption[T] {
	return func(p pipz.Chainable[*Change[T]]) pipz.Chainable[*Change[T]] {
		return pipz.NewHandle("error-handler", p, handler)
	}
}

// WithMiddleware runs processors in order before the effect.
//
//	ripple.NewEffect(cfg, apply,
//	    ripple.WithMiddleware(
//	        ripple.UseEffect[Config]("audit", audit),
//	        ripple.UseRateLimit[Config](10, 5),
//	    ),
//	    ripple.WithCircuitBreaker[Config](5, 30*time.Second),
//	)
func WithMiddleware[T any](processors ...pipz.Chainable[*Change[T]]) EffectOption[T] {
	return func(p pipz.Chainable[*Change[T]]) pipz.Chainable[*Change[T]] {
		all := make([]pipz.Chainable[*Change[T]], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence("middleware", all...)
	}
}

// UseTransform creates a processor rewriting the change. Cannot fail.
func UseTransform[T any](name string, fn func(context.Context, *Change[T]) *Change[T]) pipz.Chainable[*Change[T]] {
	return pipz.Transform(pipz.Name(name), fn)
}

// UseApply creates a processor that may rewrite the change or fail.
func UseApply[T any](name string, fn func(context.Context, *Change[T]) (*Change[T], error)) pipz.Chainable[*Change[T]] {
	return pipz.Apply(pipz.Name(name), fn)
}

// UseEffect creates a processor that observes the change without altering it.
func UseEffect[T any](name string, fn func(context.Context, *Change[T]) error) pipz.Chainable[*Change[T]] {
	return pipz.Effect(pipz.Name(name), fn)
}

// UseMutate creates a processor applying transformer only when condition
// accepts the change.
func UseMutate[T any](name string, transformer func(context.Context, *Change[T]) *Change[T], condition func(context.Context, *Change[T]) bool) pipz.Chainable[*Change[T]] {
	return pipz.Mutate(pipz.Name(name), transformer, condition)
}

// UseEnrich creates a processor attempting an optional enhancement. If fn
// fails the change continues unmodified.
func UseEnrich[T any](name string, fn func(context.Context, *Change[T]) (*Change[T], error)) pipz.Chainable[*Change[T]] {
	return pipz.Enrich(pipz.Name(name), fn)
}

// UseRetry wraps a single processor with immediate retries.
func UseRetry[T any](maxAttempts int, processor pipz.Chainable[*Change[T]]) pipz.Chainable[*Change[T]] {
	return pipz.NewRetry("retry", processor, maxAttempts)
}

// UseBackoff wraps a single processor with exponential backoff retries.
func UseBackoff[T any](maxAttempts int, baseDelay time.Duration, processor pipz.Chainable[*Change[T]]) pipz.Chainable[*Change[T]] {
	return pipz.NewBackoff("backoff", processor, maxAttempts, baseDelay)
}

// UseTimeout wraps a single processor with a deadline.
func UseTimeout[T any](d time.Duration, processor pipz.Chainable[*Change[T]]) pipz.Chainable[*Change[T]] {
	return pipz.NewTimeout("timeout", processor, d)
}

// UseFilter runs processor only for changes accepted by condition; others
// pass through unchanged.
func UseFilter[T any](name string, condition func(context.Context, *Change[T]) bool, processor pipz.Chainable[*Change[T]]) pipz.Chainable[*Change[T]] {
	return pipz.NewFilter(pipz.Name(name), condition, processor)
}

// UseRateLimit creates a token bucket limiter with the given rate (tokens
// per second) and burst. Runs wait for a token.
func UseRateLimit[T any](rate float64, burst int) pipz.Chainable[*Change[T]] {
	return pipz.NewRateLimiter[*Change[T]]("rate-limiter", rate, burst)
}
