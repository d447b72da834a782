package ripple

import (
	"sync"
	"sync/atomic"
	"weak"
)

// watcher is a single registration in a registry.
type watcher[T any] struct {
	id     uint64
	fn     func(Context[T])
	active atomic.Bool
}

// registry keeps the ordered set of watchers for one observable. Its mutex is
// also the lock a Binding uses for its value, so value and registrations are
// covered jointly.
type registry[T any] struct {
	mu      sync.Mutex
	nextID  uint64
	entries []*watcher[T]
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{}
}

// addLocked registers fn and returns its guard. Must be called with mu held.
//
// The guard only keeps a weak reference to the registry, so outstanding
// guards never keep a dropped observable alive and releasing them afterwards
// is a no-op.
func (r *registry[T]) addLocked(fn func(Context[T])) *Guard {
	r.nextID++
	w := &watcher[T]{id: r.nextID, fn: fn}
	w.active.Store(true)
	r.entries = append(r.entries, w)

	ref := weak.Make(r)
	id := w.id
	return NewGuard(func() {
		w.active.Store(false)
		if reg := ref.Value(); reg != nil {
			reg.remove(id)
		}
	})
}

// add registers fn, taking the lock.
func (r *registry[T]) add(fn func(Context[T])) *Guard {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addLocked(fn)
}

// remove drops the registration with the given id.
func (r *registry[T]) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, w := range r.entries {
		if w.id == id {
			// Keep registration order; dispatch order depends on it.
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			return
		}
	}
}

// snapshotLocked copies the current registrations. Must be called with mu held.
func (r *registry[T]) snapshotLocked() []*watcher[T] {
	if len(r.entries) == 0 {
		return nil
	}
	out := make([]*watcher[T], len(r.entries))
	copy(out, r.entries)
	return out
}

// lenLocked returns the number of registrations. Must be called with mu held.
func (r *registry[T]) lenLocked() int {
	return len(r.entries)
}

// len returns the number of registrations.
func (r *registry[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// notify delivers ctx to a snapshot of the registrations without holding the
// lock while callbacks run.
func (r *registry[T]) notify(ctx Context[T]) {
	r.mu.Lock()
	watchers := r.snapshotLocked()
	r.mu.Unlock()
	deliver(watchers, ctx)
}

// deliver invokes every still-active watcher in order. A watcher released
// mid-dispatch is skipped from that point on.
func deliver[T any](watchers []*watcher[T], ctx Context[T]) {
	for _, w := range watchers {
		if w.active.Load() {
			w.fn(ctx)
		}
	}
}
