package ripple

import "fmt"

// Optional holds a value or nothing. The zero value is empty.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some wraps value.
func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, ok: true}
}

// None returns an empty optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Value returns the held value and whether there is one.
func (o Optional[T]) Value() (T, bool) {
	return o.value, o.ok
}

// IsSome reports whether a value is present.
func (o Optional[T]) IsSome() bool {
	return o.ok
}

// Or returns the held value, or def when empty.
func (o Optional[T]) Or(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

func (o Optional[T]) String() string {
	if !o.ok {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}
