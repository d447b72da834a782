package ripple

// Binding is a mutable, observable cell: the sole owner of a value and the
// root producer of changes.
//
// A single mutex covers the value and the registrations. The lock is never
// held while watchers run, so watchers may read the binding, subscribe,
// release guards or write to other bindings without deadlocking.
//
// Writes that arrive while a dispatch for the same binding is in progress,
// whether issued re-entrantly by a watcher or concurrently by another
// goroutine, are queued and delivered in FIFO order by the goroutine already
// dispatching. A concurrent Set may therefore return before its watchers have
// run. Every write is delivered exactly once to every watcher that is
// registered when its turn comes. A watcher that keeps writing to its own
// binding grows the queue without bound.
//
// A panicking watcher aborts delivery of that write to the watchers after it.
// The panic reaches the dispatching writer; queued writes are still delivered.
type Binding[T any] struct {
	reg         *registry[T]
	value       T
	queue       []Context[T]
	dispatching bool
}

// NewBinding creates a binding holding initial.
func NewBinding[T any](initial T) *Binding[T] {
	return &Binding[T]{
		reg:   newRegistry[T](),
		value: initial,
	}
}

// Get returns the current value.
func (b *Binding[T]) Get() T {
	b.reg.mu.Lock()
	defer b.reg.mu.Unlock()
	return b.value
}

// Set stores value and notifies every registered watcher, in registration
// order, with a context carrying value.
func (b *Binding[T]) Set(value T) {
	b.reg.mu.Lock()
	b.commitLocked(Context[T]{Value: value})
}

// SetWith stores value and notifies watchers with the given metadata attached.
func (b *Binding[T]) SetWith(value T, fields ...Field) {
	b.reg.mu.Lock()
	b.commitLocked(NewContext(value, fields...))
}

// Update replaces the value with fn(current) under the binding's lock and
// notifies watchers. fn must not access the binding itself.
func (b *Binding[T]) Update(fn func(T) T) {
	b.reg.mu.Lock()
	next := fn(b.value)
	b.commitLocked(Context[T]{Value: next})
}

// Subscribe registers fn for every subsequent change.
func (b *Binding[T]) Subscribe(fn func(Context[T])) *Guard {
	return b.reg.add(fn)
}

// Watchers returns the number of active registrations.
func (b *Binding[T]) Watchers() int {
	return b.reg.len()
}

// commitLocked stores ctx.Value and dispatches it. Must be called with the
// lock held; returns with the lock released.
func (b *Binding[T]) commitLocked(ctx Context[T]) {
	b.value = ctx.Value
	if !b.dispatching && b.reg.lenLocked() == 0 {
		b.reg.mu.Unlock()
		return
	}

	b.queue = append(b.queue, ctx)
	if b.dispatching {
		// The goroutine currently dispatching drains the queue.
		b.reg.mu.Unlock()
		return
	}

	b.dispatching = true
	b.drainLocked()
}

// drainLocked delivers queued writes until the queue is empty. Must be called
// with the lock held and dispatching set; returns with the lock released.
func (b *Binding[T]) drainLocked() {
	for len(b.queue) > 0 {
		next := b.queue[0]
		b.queue[0] = Context[T]{}
		b.queue = b.queue[1:]
		watchers := b.reg.snapshotLocked()
		b.reg.mu.Unlock()

		b.deliver(watchers, next)

		b.reg.mu.Lock()
	}
	b.queue = nil
	b.dispatching = false
	b.reg.mu.Unlock()
}

// deliver runs one dispatch cycle. If a watcher panics, the panic propagates
// to the dispatching writer and writes still queued behind it are drained on
// a new goroutine.
func (b *Binding[T]) deliver(watchers []*watcher[T], ctx Context[T]) {
	completed := false
	defer func() {
		if completed {
			return
		}
		b.reg.mu.Lock()
		if len(b.queue) == 0 {
			b.dispatching = false
			b.reg.mu.Unlock()
			return
		}
		b.reg.mu.Unlock()
		go func() {
			b.reg.mu.Lock()
			b.drainLocked()
		}()
	}()
	deliver(watchers, ctx)
	completed = true
}
