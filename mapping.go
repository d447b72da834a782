package ripple

import "cmp"

// Mapping is a bidirectional view over a writable source. Reads go through
// get; writes go through set, which decides what, if anything, to write back
// to the source. A mapping holds no state of its own.
type Mapping[S, T any] struct {
	src Settable[S]
	get func(S) T
	set func(Settable[S], T)
}

// NewMapping creates a view of src. A nil set makes the mapping read-only:
// writes are ignored.
func NewMapping[S, T any](src Settable[S], get func(S) T, set func(Settable[S], T)) *Mapping[S, T] {
	return &Mapping[S, T]{src: src, get: get, set: set}
}

// Get returns get applied to the source's current value.
func (m *Mapping[S, T]) Get() T {
	return m.get(m.src.Get())
}

// Set routes value back into the source.
func (m *Mapping[S, T]) Set(value T) {
	if m.set != nil {
		m.set(m.src, value)
	}
}

// Subscribe forwards every source change, transformed by get.
func (m *Mapping[S, T]) Subscribe(fn func(Context[T])) *Guard {
	return m.src.Subscribe(func(c Context[S]) {
		fn(MapContext(c, m.get))
	})
}

func identity[T any](v T) T { return v }

// Filter returns a view of src whose writes are dropped unless keep accepts
// them.
func Filter[T any](src Settable[T], keep func(T) bool) *Mapping[T, T] {
	return NewMapping(src, identity[T], func(s Settable[T], v T) {
		if keep(v) {
			s.Set(v)
		}
	})
}

// Range returns a view of src rejecting writes outside [lo, hi].
func Range[T cmp.Ordered](src Settable[T], lo, hi T) *Mapping[T, T] {
	return Filter(src, func(v T) bool { return v >= lo && v <= hi })
}

// Not returns the negation of a boolean source. Writes are negated too.
func Not(src Settable[bool]) *Mapping[bool, bool] {
	return NewMapping(src,
		func(v bool) bool { return !v },
		func(s Settable[bool], v bool) { s.Set(!v) },
	)
}

// Select yields ifTrue or ifFalse depending on src. Writing ifTrue sets src to
// true, anything else sets it to false.
func Select[T comparable](src Settable[bool], ifTrue, ifFalse T) *Mapping[bool, T] {
	return NewMapping(src,
		func(v bool) T {
			if v {
				return ifTrue
			}
			return ifFalse
		},
		func(s Settable[bool], v T) { s.Set(v == ifTrue) },
	)
}

// Then yields Some(value) while src is true and None otherwise. Writing an
// occupied optional sets src to true, an empty one sets it to false.
func Then[T any](src Settable[bool], value T) *Mapping[bool, Optional[T]] {
	return NewMapping(src,
		func(v bool) Optional[T] {
			if v {
				return Some(value)
			}
			return None[T]()
		},
		func(s Settable[bool], v Optional[T]) { s.Set(v.IsSome()) },
	)
}

// UnwrapOr reads the held value of src or def when empty. Writes store
// Some(value).
func UnwrapOr[T any](src Settable[Optional[T]], def T) *Mapping[Optional[T], T] {
	return NewMapping(src,
		func(v Optional[T]) T { return v.Or(def) },
		func(s Settable[Optional[T]], v T) { s.Set(Some(v)) },
	)
}

// SomeEqualTo is true while src holds exactly want. Writing true stores
// Some(want); writing false is ignored.
func SomeEqualTo[T comparable](src Settable[Optional[T]], want T) *Mapping[Optional[T], bool] {
	return NewMapping(src,
		func(v Optional[T]) bool {
			got, ok := v.Value()
			return ok && got == want
		},
		func(s Settable[Optional[T]], v bool) {
			if v {
				s.Set(Some(want))
			}
		},
	)
}

// Condition is a read-only view reporting whether pred holds for src.
func Condition[T any](src Observable[T], pred func(T) bool) Observable[bool] {
	return Map(src, pred)
}

// EqualTo is a read-only view reporting whether src equals want.
func EqualTo[T comparable](src Observable[T], want T) Observable[bool] {
	return Map(src, func(v T) bool { return v == want })
}
