package ripple

import (
	"context"

	"github.com/zoobzio/capitan"
)

// Future is a one-shot observable: empty until resolved, then holding a value
// forever.
//
// Watchers registered before resolution receive exactly one notification.
// Watchers registered afterwards are never notified and get a no-op guard;
// they must read Get.
type Future[T any] struct {
	reg      *registry[Optional[T]]
	done     chan struct{}
	value    T
	resolved bool
}

// NewFuture creates an unresolved future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{
		reg:  newRegistry[Optional[T]](),
		done: make(chan struct{}),
	}
}

// Async runs fn on its own goroutine and resolves the returned future with
// its result.
func Async[T any](ctx context.Context, fn func(context.Context) T) *Future[T] {
	f := NewFuture[T]()
	go func() {
		f.Resolve(fn(ctx))
	}()
	return f
}

// Get returns None until the future is resolved, then Some(value).
func (f *Future[T]) Get() Optional[T] {
	f.reg.mu.Lock()
	defer f.reg.mu.Unlock()
	if !f.resolved {
		return None[T]()
	}
	return Some(f.value)
}

// Subscribe registers fn for the resolution.
func (f *Future[T]) Subscribe(fn func(Context[Optional[T]])) *Guard {
	f.reg.mu.Lock()
	defer f.reg.mu.Unlock()
	if f.resolved {
		return NopGuard()
	}
	return f.reg.addLocked(fn)
}

// Resolve stores value and notifies pending watchers. Resolving twice is a
// programming error and panics with ErrAlreadyResolved.
func (f *Future[T]) Resolve(value T) {
	if err := f.TryResolve(value); err != nil {
		panic(err)
	}
}

// TryResolve is Resolve returning ErrAlreadyResolved instead of panicking.
func (f *Future[T]) TryResolve(value T) error {
	f.reg.mu.Lock()
	if f.resolved {
		f.reg.mu.Unlock()
		return ErrAlreadyResolved
	}
	f.resolved = true
	f.value = value
	watchers := f.reg.snapshotLocked()
	f.reg.entries = nil
	close(f.done)
	f.reg.mu.Unlock()

	deliver(watchers, Context[Optional[T]]{Value: Some(value)})
	capitan.Emit(context.Background(), FutureResolved,
		KeyWatchers.Field(len(watchers)),
	)
	return nil
}

// Done returns a channel closed once the future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future is resolved or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		v, _ := f.Get().Value()
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
