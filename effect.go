package ripple

import (
	"context"
	"fmt"
	"sync"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// Change is what flows through an effect pipeline: the value the effect last
// handled successfully and the new one.
type Change[T any] struct {
	// Previous is the last value the effect handled without error, or the
	// observable's value when the effect started.
	Previous T

	// Current is the new value. Pipeline stages may replace it before the
	// effect function sees it.
	Current T

	// Metadata is the metadata attached to the change.
	Metadata Metadata
}

// Effect runs a side effect for changes of an observable through a pipz
// pipeline, so retries, backoff, timeouts and circuit breaking can wrap it.
//
// By default changes are handled on the effect's own goroutine and only the
// latest unhandled change is kept: a slow effect skips intermediate values.
// In sync mode the pipeline runs on the notifying goroutine for every change.
type Effect[T any] struct {
	src      Observable[T]
	pipeline pipz.Chainable[*Change[T]]
	name     string
	syncMode bool
	clock    clockz.Clock
	metrics  MetricsProvider
	failures *failures

	mu       sync.Mutex
	started  bool
	previous T
	pending  *Change[T]
	wake     chan struct{}
}

// NewEffect creates an effect calling fn with the previous and current value
// of src on every change. Pipeline options (With*) wrap fn. Instance
// configuration uses chainable methods before calling Start().
//
//	eff := ripple.NewEffect(cfg,
//	    func(ctx context.Context, prev, curr Config) error {
//	        return server.Apply(ctx, curr)
//	    },
//	    ripple.WithBackoff[Config](5, 100*time.Millisecond),
//	).Name("apply-config")
func NewEffect[T any](
	src Observable[T],
	fn func(ctx context.Context, prev, curr T) error,
	opts ...EffectOption[T],
) *Effect[T] {
	terminal := pipz.Effect(pipz.Name("effect"), func(ctx context.Context, c *Change[T]) error {
		return fn(ctx, c.Previous, c.Current)
	})

	return &Effect[T]{
		src:      src,
		pipeline: buildPipeline(terminal, opts),
		name:     "effect",
		clock:    clockz.RealClock,
		metrics:  NoOpMetricsProvider{},
		failures: newFailures(0),
		wake:     make(chan struct{}, 1),
	}
}

// Name labels the effect in signals and metrics. Must be called before Start().
func (e *Effect[T]) Name(name string) *Effect[T] {
	e.name = name
	return e
}

// SyncMode runs the pipeline inline on the notifying goroutine.
// Must be called before Start().
func (e *Effect[T]) SyncMode() *Effect[T] {
	e.syncMode = true
	return e
}

// Clock sets the clock used to time pipeline runs. Must be called before Start().
func (e *Effect[T]) Clock(clock clockz.Clock) *Effect[T] {
	e.clock = clock
	return e
}

// Metrics sets a metrics provider. Must be called before Start().
func (e *Effect[T]) Metrics(provider MetricsProvider) *Effect[T] {
	e.metrics = provider
	return e
}

// ErrorHistorySize sets the number of recent failures to retain.
// Must be called before Start().
func (e *Effect[T]) ErrorHistorySize(n int) *Effect[T] {
	e.failures = newFailures(n)
	return e
}

// LastError returns the last pipeline failure since the last success.
func (e *Effect[T]) LastError() error {
	return e.failures.lastError()
}

// ErrorHistory returns recent failures, oldest first.
func (e *Effect[T]) ErrorHistory() []error {
	return e.failures.history()
}

// Start subscribes to the observable. The current value is recorded as
// Previous but not handled. The effect stops when ctx is done.
// Start can only be called once.
func (e *Effect[T]) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return fmt.Errorf("effect already started")
	}
	e.started = true
	e.previous = e.src.Get()
	e.mu.Unlock()

	var guard *Guard
	if e.syncMode {
		guard = e.src.Subscribe(func(c Context[T]) {
			_ = e.run(ctx, c) //nolint:errcheck // Errors stored in failures
		})
	} else {
		guard = e.src.Subscribe(e.enqueue)
		go e.loop(ctx)
	}

	go func() {
		<-ctx.Done()
		guard.Release()
	}()
	return nil
}

// enqueue keeps c as the only pending change and wakes the loop.
func (e *Effect[T]) enqueue(c Context[T]) {
	e.mu.Lock()
	e.pending = &Change[T]{Current: c.Value, Metadata: c.Metadata}
	e.mu.Unlock()

	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *Effect[T]) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.wake:
			e.mu.Lock()
			next := e.pending
			e.pending = nil
			e.mu.Unlock()
			if next != nil {
				_ = e.run(ctx, Context[T]{Value: next.Current, Metadata: next.Metadata}) //nolint:errcheck // Errors stored in failures
			}
		}
	}
}

// run pushes one change through the pipeline.
func (e *Effect[T]) run(ctx context.Context, c Context[T]) error {
	start := e.clock.Now()
	e.metrics.OnChangeReceived(e.name)

	e.mu.Lock()
	req := &Change[T]{Previous: e.previous, Current: c.Value, Metadata: c.Metadata}
	e.mu.Unlock()

	processed, err := e.pipeline.Process(ctx, req)
	if err != nil {
		e.failures.record(err)
		capitan.Emit(ctx, EffectFailed,
			KeyName.Field(e.name),
			KeyError.Field(err.Error()),
		)
		e.metrics.OnEffectFailure(e.name, e.clock.Since(start))
		return fmt.Errorf("pipeline failed: %w", err)
	}

	e.mu.Lock()
	e.previous = processed.Current
	e.mu.Unlock()
	e.failures.reset()

	elapsed := e.clock.Since(start)
	capitan.Emit(ctx, EffectSucceeded,
		KeyName.Field(e.name),
		KeyDuration.Field(elapsed),
	)
	e.metrics.OnEffectSuccess(e.name, elapsed)
	return nil
}
