package ripple

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
)

// Debounced emits an upstream value only after the upstream has been quiet
// for the configured duration.
//
// Each notification restarts the quiet timer and replaces the pending value.
// When the timer fires the pending value is emitted on the timer's goroutine,
// so watchers must tolerate being called from a goroutine other than the
// writer's. Emissions are delivered one at a time in firing order. Get returns
// the last emitted value, never the pending one.
type Debounced[T any] struct {
	reg      *registry[T]
	upstream *Guard
	cfg      config
	quiet    time.Duration

	mu      sync.Mutex
	state   State
	last    T
	pending Context[T]
	alarm   alarm
	emits   sequencer
}

// Debounce wraps src. The initial emitted value is src's value at
// construction.
func Debounce[T any](src Observable[T], quiet time.Duration, opts ...Option) *Debounced[T] {
	cfg := newConfig("debounce", opts)
	d := &Debounced[T]{
		reg:   newRegistry[T](),
		cfg:   cfg,
		quiet: quiet,
		last:  src.Get(),
		alarm: alarm{clock: cfg.clock},
	}
	d.upstream = src.Subscribe(d.onChange)
	return d
}

// Get returns the last emitted value.
func (d *Debounced[T]) Get() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// Subscribe registers fn for settled values.
func (d *Debounced[T]) Subscribe(fn func(Context[T])) *Guard {
	return d.reg.add(fn)
}

// State returns the controller state.
func (d *Debounced[T]) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Release cancels the timer, drops any pending value and detaches from
// upstream. Nothing is emitted afterwards.
func (d *Debounced[T]) Release() {
	d.mu.Lock()
	if d.state == StateReleased {
		d.mu.Unlock()
		return
	}
	from := d.state
	d.state = StateReleased
	d.alarm.stop()
	d.pending = Context[T]{}
	d.mu.Unlock()

	d.upstream.Release()
	d.cfg.transition(from, StateReleased)
	capitan.Emit(context.Background(), ControllerReleased, KeyName.Field(d.cfg.name))
}

func (d *Debounced[T]) onChange(ctx Context[T]) {
	d.cfg.metrics.OnChangeReceived(d.cfg.name)

	d.mu.Lock()
	if d.state == StateReleased {
		d.mu.Unlock()
		return
	}
	from := d.state
	d.state = StatePending
	d.pending = ctx
	d.alarm.arm(d.quiet, d.fire)
	d.mu.Unlock()

	d.cfg.transition(from, StatePending)
}

func (d *Debounced[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.state != StatePending || !d.alarm.current(gen) {
		d.mu.Unlock()
		return
	}
	d.alarm.fired()
	ctx := d.pending
	d.pending = Context[T]{}
	d.last = ctx.Value
	d.state = StateIdle
	ticket := d.emits.ticketLocked()
	d.mu.Unlock()

	d.cfg.transition(StatePending, StateIdle)
	d.emits.run(ticket, func() {
		d.reg.notify(ctx)
	})
	d.cfg.metrics.OnEmit(d.cfg.name)
}
