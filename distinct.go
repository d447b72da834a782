package ripple

import "sync"

// Distincted forwards only notifications that differ from the last value it
// forwarded.
type Distincted[T any] struct {
	src      Observable[T]
	eq       func(a, b T) bool
	reg      *registry[T]
	upstream *Guard

	mu   sync.Mutex
	last T
}

// Distinct suppresses notifications equal to the previously forwarded value.
// The initial value of src, read at construction, counts as forwarded.
func Distinct[T comparable](src Observable[T]) *Distincted[T] {
	return DistinctFunc(src, func(a, b T) bool { return a == b })
}

// DistinctFunc is Distinct for values compared with eq.
func DistinctFunc[T any](src Observable[T], eq func(a, b T) bool) *Distincted[T] {
	d := &Distincted[T]{
		src:  src,
		eq:   eq,
		reg:  newRegistry[T](),
		last: src.Get(),
	}
	d.upstream = src.Subscribe(d.onChange)
	return d
}

// Get returns upstream's current value.
func (d *Distincted[T]) Get() T {
	return d.src.Get()
}

// Subscribe registers fn for distinct changes.
func (d *Distincted[T]) Subscribe(fn func(Context[T])) *Guard {
	return d.reg.add(fn)
}

// Release detaches from upstream.
func (d *Distincted[T]) Release() {
	d.upstream.Release()
}

func (d *Distincted[T]) onChange(ctx Context[T]) {
	d.mu.Lock()
	if d.eq(d.last, ctx.Value) {
		d.mu.Unlock()
		return
	}
	d.last = ctx.Value
	d.mu.Unlock()
	d.reg.notify(ctx)
}
