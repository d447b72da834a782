package ripple

import "cmp"

// mapped derives a value from a single source.
type mapped[S, T any] struct {
	src Observable[S]
	f   func(S) T
}

// Map returns an observable whose value is f applied to src. Nothing is
// cached: Get recomputes on every call and each notification carries
// f(new value) with the source metadata. Wrap the result in Cache when f is
// expensive.
func Map[S, T any](src Observable[S], f func(S) T) Observable[T] {
	return &mapped[S, T]{src: src, f: f}
}

func (m *mapped[S, T]) Get() T {
	return m.f(m.src.Get())
}

func (m *mapped[S, T]) Subscribe(fn func(Context[T])) *Guard {
	return m.src.Subscribe(func(c Context[S]) {
		fn(MapContext(c, m.f))
	})
}

// Pair is the value of a combined observable.
type Pair[A, B any] struct {
	First  A
	Second B
}

// combined joins two sources.
type combined[A, B any] struct {
	a Observable[A]
	b Observable[B]
}

// Combine joins a and b into an observable of pairs.
//
// Get reads both sides independently, so a concurrent write may land between
// the two reads. A notification fires when either side changes: the changed
// side contributes the value from its context and the other side is read at
// notification time.
func Combine[A, B any](a Observable[A], b Observable[B]) Observable[Pair[A, B]] {
	return &combined[A, B]{a: a, b: b}
}

func (c *combined[A, B]) Get() Pair[A, B] {
	return Pair[A, B]{First: c.a.Get(), Second: c.b.Get()}
}

func (c *combined[A, B]) Subscribe(fn func(Context[Pair[A, B]])) *Guard {
	ga := c.a.Subscribe(func(ctx Context[A]) {
		fn(Context[Pair[A, B]]{
			Value:    Pair[A, B]{First: ctx.Value, Second: c.b.Get()},
			Metadata: ctx.Metadata,
		})
	})
	gb := c.b.Subscribe(func(ctx Context[B]) {
		fn(Context[Pair[A, B]]{
			Value:    Pair[A, B]{First: c.a.Get(), Second: ctx.Value},
			Metadata: ctx.Metadata,
		})
	})
	return JoinGuards(ga, gb)
}

// CombineWith joins a and b through f.
func CombineWith[A, B, T any](a Observable[A], b Observable[B], f func(A, B) T) Observable[T] {
	return Map(Combine(a, b), func(p Pair[A, B]) T { return f(p.First, p.Second) })
}

// Add is the sum of a and b.
func Add[N Number](a, b Observable[N]) Observable[N] {
	return CombineWith(a, b, func(x, y N) N { return x + y })
}

// Max is the larger of a and b.
func Max[T cmp.Ordered](a, b Observable[T]) Observable[T] {
	return CombineWith(a, b, func(x, y T) T { return max(x, y) })
}

// Min is the smaller of a and b.
func Min[T cmp.Ordered](a, b Observable[T]) Observable[T] {
	return CombineWith(a, b, func(x, y T) T { return min(x, y) })
}
