package ripple

// Computed is a type-erased handle over any Observable[T]. Get and Subscribe
// delegate straight to the wrapped observable; nothing is buffered. Copies of
// a Computed share the wrapped observable.
//
// The zero value behaves as a constant zero value of T.
type Computed[T any] struct {
	inner Observable[T]
}

// Erase wraps o. Erasing a Computed returns it unchanged.
func Erase[T any](o Observable[T]) Computed[T] {
	if c, ok := o.(Computed[T]); ok {
		return c
	}
	return Computed[T]{inner: o}
}

// ComputedConstant returns a handle that always yields value.
func ComputedConstant[T any](value T) Computed[T] {
	return Computed[T]{inner: Constant(value)}
}

// Get returns the wrapped observable's value.
func (c Computed[T]) Get() T {
	if c.inner == nil {
		var zero T
		return zero
	}
	return c.inner.Get()
}

// Subscribe registers fn with the wrapped observable.
func (c Computed[T]) Subscribe(fn func(Context[T])) *Guard {
	if c.inner == nil {
		return NopGuard()
	}
	return c.inner.Subscribe(fn)
}
