package ripple

import (
	"context"
	"iter"
	"sync"
)

// Stream turns an observable into a pull-style sequence of updates.
//
// Only the most recent undelivered value is kept: a consumer that falls
// behind skips intermediate values and sees the latest one. The value the
// source holds when the stream is created is not delivered.
type Stream[T any] struct {
	upstream *Guard
	signal   chan struct{}
	done     chan struct{}

	mu     sync.Mutex
	latest T
	has    bool
	closed bool
}

// NewStream subscribes to src.
func NewStream[T any](src Observable[T]) *Stream[T] {
	s := &Stream[T]{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	s.upstream = src.Subscribe(s.onChange)
	return s
}

func (s *Stream[T]) onChange(ctx Context[T]) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.latest = ctx.Value
	s.has = true
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// Next waits for the next update. It returns ErrStreamClosed once the stream
// is closed and ctx.Err() if ctx ends first.
func (s *Stream[T]) Next(ctx context.Context) (T, error) {
	var zero T
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return zero, ErrStreamClosed
		}
		if s.has {
			v := s.latest
			s.latest = zero
			s.has = false
			s.mu.Unlock()
			return v, nil
		}
		s.mu.Unlock()

		select {
		case <-s.signal:
		case <-s.done:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// All yields updates until the stream is closed, ctx ends or the consumer
// stops.
func (s *Stream[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := s.Next(ctx)
			if err != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Close releases the upstream subscription and wakes any waiting Next.
func (s *Stream[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	var zero T
	s.latest = zero
	s.has = false
	s.mu.Unlock()

	s.upstream.Release()
	close(s.done)
}
