package ripple

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
)

// Throttled limits an upstream to at most one emission per interval, with
// both leading and trailing edges.
//
// A notification while idle is emitted immediately and opens a cooldown
// window. Notifications inside the window replace a single pending slot. When
// the window closes the pending value, if any, is emitted on the timer's
// goroutine and a new window opens; otherwise the controller goes idle.
//
// Emissions are serialized: a trailing value is never delivered before, or
// concurrently with, the emission that preceded it, even when watchers take
// longer than the interval.
type Throttled[T any] struct {
	reg      *registry[T]
	upstream *Guard
	cfg      config
	interval time.Duration

	mu         sync.Mutex
	state      State
	last       T
	pending    Context[T]
	hasPending bool
	alarm      alarm
	emits      sequencer
}

// Throttle wraps src. The initial emitted value is src's value at
// construction.
func Throttle[T any](src Observable[T], interval time.Duration, opts ...Option) *Throttled[T] {
	cfg := newConfig("throttle", opts)
	t := &Throttled[T]{
		reg:      newRegistry[T](),
		cfg:      cfg,
		interval: interval,
		last:     src.Get(),
		alarm:    alarm{clock: cfg.clock},
	}
	t.upstream = src.Subscribe(t.onChange)
	return t
}

// Get returns the last emitted value.
func (t *Throttled[T]) Get() T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Subscribe registers fn for throttled values.
func (t *Throttled[T]) Subscribe(fn func(Context[T])) *Guard {
	return t.reg.add(fn)
}

// State returns the controller state.
func (t *Throttled[T]) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Release cancels the cooldown timer, drops any pending value and detaches
// from upstream. Nothing is emitted afterwards.
func (t *Throttled[T]) Release() {
	t.mu.Lock()
	if t.state == StateReleased {
		t.mu.Unlock()
		return
	}
	from := t.state
	t.state = StateReleased
	t.alarm.stop()
	t.pending = Context[T]{}
	t.hasPending = false
	t.mu.Unlock()

	t.upstream.Release()
	t.cfg.transition(from, StateReleased)
	capitan.Emit(context.Background(), ControllerReleased, KeyName.Field(t.cfg.name))
}

func (t *Throttled[T]) onChange(ctx Context[T]) {
	t.cfg.metrics.OnChangeReceived(t.cfg.name)

	t.mu.Lock()
	switch t.state {
	case StateReleased:
		t.mu.Unlock()
		return

	case StateCooldown:
		t.pending = ctx
		t.hasPending = true
		t.mu.Unlock()
		return
	}

	// Leading edge.
	t.last = ctx.Value
	t.state = StateCooldown
	t.alarm.arm(t.interval, t.fire)
	ticket := t.emits.ticketLocked()
	t.mu.Unlock()

	t.cfg.transition(StateIdle, StateCooldown)
	t.emit(ticket, ctx)
}

func (t *Throttled[T]) fire(gen uint64) {
	t.mu.Lock()
	if t.state != StateCooldown || !t.alarm.current(gen) {
		t.mu.Unlock()
		return
	}
	t.alarm.fired()

	if !t.hasPending {
		t.state = StateIdle
		t.mu.Unlock()
		t.cfg.transition(StateCooldown, StateIdle)
		return
	}

	// Trailing edge; the window restarts from here.
	ctx := t.pending
	t.pending = Context[T]{}
	t.hasPending = false
	t.last = ctx.Value
	t.alarm.arm(t.interval, t.fire)
	ticket := t.emits.ticketLocked()
	t.mu.Unlock()

	t.emit(ticket, ctx)
}

func (t *Throttled[T]) emit(ticket uint64, ctx Context[T]) {
	t.emits.run(ticket, func() {
		t.reg.notify(ctx)
	})
	t.cfg.metrics.OnEmit(t.cfg.name)
}
