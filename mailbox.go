package ripple

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/capitan"
)

// Loop is an execution context that owns cells on behalf of other goroutines.
// Requests submitted through Do run one at a time on the goroutine calling
// Run, so the cells it owns are only ever touched from there.
type Loop struct {
	cfg      config
	requests chan func()
	stopped  chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
}

// NewLoop creates a loop. It serves nothing until Run is called.
func NewLoop(opts ...Option) *Loop {
	return &Loop{
		cfg:      newConfig("loop", opts),
		requests: make(chan func()),
		stopped:  make(chan struct{}),
	}
}

// Run serves requests until ctx is done or Stop is called. A loop runs at
// most once; once Run returns every pending and future request fails with
// ErrDisconnected.
func (l *Loop) Run(ctx context.Context) error {
	select {
	case <-l.stopped:
		return ErrLoopStopped
	default:
	}
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}

	capitan.Emit(ctx, LoopStarted, KeyName.Field(l.cfg.name))
	defer func() {
		l.Stop()
		capitan.Emit(context.Background(), LoopStopped, KeyName.Field(l.cfg.name))
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stopped:
			return nil
		case req := <-l.requests:
			req()
		}
	}
}

// Stop ends Run. It is safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopped)
	})
}

// Do runs fn on the loop and waits for it to finish. It returns
// ErrDisconnected if the loop is gone and ctx.Err() if ctx ends first; in the
// latter case fn may still run later.
//
// Do must not be called from code already running on the loop, such as a
// watcher of a loop-owned cell reached through Mailbox.Set. The loop cannot
// serve a request while it is running one, so such a call waits until ctx
// ends. Loop code should use the cell directly.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	start := l.cfg.clock.Now()
	done := make(chan struct{})
	req := func() {
		defer close(done)
		fn()
	}

	select {
	case l.requests <- req:
	case <-l.stopped:
		return ErrDisconnected
	case <-ctx.Done():
		return ctx.Err()
	}

	// The handoff is unbuffered, so the loop is already running fn.
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	l.cfg.metrics.OnMailboxRequest(l.cfg.name, l.cfg.clock.Since(start))
	return nil
}

// Mailbox is a handle for a cell owned by a Loop. Every operation crosses to
// the loop and waits for the answer; the cell itself is never touched from
// the caller's goroutine. Operations issued one after another through a
// handle are applied in that order. A handle is for use off the loop; see
// Loop.Do.
type Mailbox[T any] struct {
	loop *Loop
	cell Settable[T]
}

// NewMailbox creates a handle for cell, which must only be used on loop.
func NewMailbox[T any](loop *Loop, cell Settable[T]) *Mailbox[T] {
	return &Mailbox[T]{loop: loop, cell: cell}
}

// Get reads the cell on the loop.
func (m *Mailbox[T]) Get(ctx context.Context) (T, error) {
	return GetAs(ctx, m, func(v T) T { return v })
}

// Set writes the cell on the loop. Watchers of the cell run on the loop.
func (m *Mailbox[T]) Set(ctx context.Context, value T) error {
	return m.loop.Do(ctx, func() {
		m.cell.Set(value)
	})
}

// Update applies fn to the cell on the loop.
func (m *Mailbox[T]) Update(ctx context.Context, fn func(T) T) error {
	return m.loop.Do(ctx, func() {
		if u, ok := m.cell.(Updater[T]); ok {
			u.Update(fn)
			return
		}
		m.cell.Set(fn(m.cell.Get()))
	})
}

// GetAs reads the cell on the loop and converts the value there, so only the
// converted result crosses back.
func GetAs[T, U any](ctx context.Context, m *Mailbox[T], convert func(T) U) (U, error) {
	var out U
	err := m.loop.Do(ctx, func() {
		out = convert(m.cell.Get())
	})
	if err != nil {
		var zero U
		return zero, err
	}
	return out, nil
}
