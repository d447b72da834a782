package ripple

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// FromChannel returns a binding set to every value received on ch until ch
// closes or ctx is done. Watchers of the binding run on the receiving
// goroutine.
func FromChannel[T any](ctx context.Context, ch <-chan T, initial T) *Binding[T] {
	b := NewBinding(initial)
	go drain(ctx, ch, b.Set)
	return b
}

// Source feeds a binding from a Watcher, decoding each payload with a Codec.
//
// A payload that fails to decode leaves the binding untouched; the error is
// kept in LastError (and ErrorHistory when sized) and reported as a
// SourceDecodeFailed signal. The next good payload clears it.
type Source[T any] struct {
	watcher        Watcher
	cell           *Binding[T]
	codec          Codec
	clock          clockz.Clock
	metrics        MetricsProvider
	name           string
	startupTimeout time.Duration
	syncMode       bool
	failures       *failures

	mu      sync.Mutex
	started bool

	// For sync mode: channel to receive changes
	changes <-chan []byte
}

// NewSource creates a source whose binding starts at initial.
// Configure it with the chainable methods, then call Start.
func NewSource[T any](watcher Watcher, initial T) *Source[T] {
	return &Source[T]{
		watcher:  watcher,
		cell:     NewBinding(initial),
		codec:    JSONCodec{},
		clock:    clockz.RealClock,
		metrics:  NoOpMetricsProvider{},
		name:     "source",
		failures: newFailures(0),
	}
}

// Decode starts a source over watcher using codec. The source is returned
// even when the first payload fails to decode; it keeps watching.
func Decode[T any](ctx context.Context, watcher Watcher, codec Codec, initial T) (*Source[T], error) {
	s := NewSource(watcher, initial).Codec(codec)
	return s, s.Start(ctx)
}

// Codec sets the payload codec. Default: JSONCodec. Must be called before Start().
func (s *Source[T]) Codec(codec Codec) *Source[T] {
	s.codec = codec
	return s
}

// Clock sets the clock used for the startup timeout. Must be called before Start().
func (s *Source[T]) Clock(clock clockz.Clock) *Source[T] {
	s.clock = clock
	return s
}

// StartupTimeout bounds the wait for the watcher's first payload.
// Default: wait indefinitely. Must be called before Start().
func (s *Source[T]) StartupTimeout(d time.Duration) *Source[T] {
	s.startupTimeout = d
	return s
}

// SyncMode stops Start from spawning a goroutine. Later payloads are only
// consumed through Process, making tests deterministic. Must be called before Start().
func (s *Source[T]) SyncMode() *Source[T] {
	s.syncMode = true
	return s
}

// Metrics sets a metrics provider. Must be called before Start().
func (s *Source[T]) Metrics(provider MetricsProvider) *Source[T] {
	s.metrics = provider
	return s
}

// Name labels the source in signals and metrics. Must be called before Start().
func (s *Source[T]) Name(name string) *Source[T] {
	s.name = name
	return s
}

// ErrorHistorySize sets the number of recent decode errors to retain.
// Must be called before Start().
func (s *Source[T]) ErrorHistorySize(n int) *Source[T] {
	s.failures = newFailures(n)
	return s
}

// Get returns the last decoded value, or the initial value.
func (s *Source[T]) Get() T {
	return s.cell.Get()
}

// Subscribe registers fn for decoded values.
func (s *Source[T]) Subscribe(fn func(Context[T])) *Guard {
	return s.cell.Subscribe(fn)
}

// Binding returns the binding the source writes to.
func (s *Source[T]) Binding() *Binding[T] {
	return s.cell
}

// LastError returns the last decode error, or nil.
func (s *Source[T]) LastError() error {
	return s.failures.lastError()
}

// ErrorHistory returns recent decode errors, oldest first.
func (s *Source[T]) ErrorHistory() []error {
	return s.failures.history()
}

// Start begins watching. It blocks until the first payload is processed and
// returns its decode error, if any, while continuing to watch in the
// background. Start can only be called once.
func (s *Source[T]) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("source already started")
	}
	s.started = true
	s.mu.Unlock()

	changes, err := s.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	startupCtx := ctx
	if s.startupTimeout > 0 {
		var cancel context.CancelFunc
		startupCtx, cancel = s.clock.WithTimeout(ctx, s.startupTimeout)
		defer cancel()
	}

	var initialErr error
	select {
	case <-startupCtx.Done():
		if s.startupTimeout > 0 && errors.Is(startupCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("startup timeout: watcher did not emit initial value within %v", s.startupTimeout)
		}
		return startupCtx.Err()
	case raw, ok := <-changes:
		if !ok {
			return fmt.Errorf("watcher closed before emitting initial value")
		}
		initialErr = s.process(ctx, raw)
	}

	if s.syncMode {
		s.changes = changes
		return initialErr
	}

	go func() {
		drain(ctx, changes, func(raw []byte) {
			_ = s.process(ctx, raw) //nolint:errcheck // Errors stored in failures
		})
		capitan.Emit(context.Background(), SourceStopped, KeyName.Field(s.name))
	}()

	return initialErr
}

// Process reads and processes the next payload in sync mode. It returns
// false if no payload is waiting or the channel is closed.
func (s *Source[T]) Process(ctx context.Context) bool {
	if !s.syncMode || s.changes == nil {
		return false
	}

	select {
	case raw, ok := <-s.changes:
		if !ok {
			return false
		}
		_ = s.process(ctx, raw) //nolint:errcheck // Errors stored in failures
		return true
	default:
		return false
	}
}

// process decodes one payload and writes it to the binding.
func (s *Source[T]) process(ctx context.Context, raw []byte) error {
	s.metrics.OnChangeReceived(s.name)

	var v T
	if err := s.codec.Unmarshal(raw, &v); err != nil {
		s.failures.record(err)
		capitan.Emit(ctx, SourceDecodeFailed,
			KeyName.Field(s.name),
			KeyContentType.Field(s.codec.ContentType()),
			KeyError.Field(err.Error()),
		)
		return fmt.Errorf("decode failed: %w", err)
	}

	s.failures.reset()
	s.cell.Set(v)
	s.metrics.OnEmit(s.name)
	return nil
}
