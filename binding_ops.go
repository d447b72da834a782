package ripple

import (
	"cmp"
	"slices"
)

// Number is the set of types the arithmetic helpers accept.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Increment adds n to the binding's value.
func Increment[N Number](b *Binding[N], n N) {
	b.Update(func(v N) N { return v + n })
}

// Decrement subtracts n from the binding's value.
func Decrement[N Number](b *Binding[N], n N) {
	b.Update(func(v N) N { return v - n })
}

// Toggle flips a boolean binding.
func Toggle(b *Binding[bool]) {
	b.Update(func(v bool) bool { return !v })
}

// Append concatenates s to a string binding.
func Append(b *Binding[string], s string) {
	b.Update(func(v string) string { return v + s })
}

// The slice helpers below never write into the backing array of the current
// value, since watchers may still hold it.

// Push appends values to a slice binding.
func Push[E any](b *Binding[[]E], values ...E) {
	b.Update(func(v []E) []E { return append(slices.Clip(v), values...) })
}

// Insert inserts values at index i. It panics if i is out of range.
func Insert[E any](b *Binding[[]E], i int, values ...E) {
	b.Update(func(v []E) []E { return slices.Insert(slices.Clone(v), i, values...) })
}

// Pop removes and returns the last element. ok is false if the slice was empty,
// in which case no notification is sent.
func Pop[E any](b *Binding[[]E]) (last E, ok bool) {
	b.reg.mu.Lock()
	v := b.value
	if len(v) == 0 {
		b.reg.mu.Unlock()
		return last, false
	}
	last = v[len(v)-1]
	b.commitLocked(Context[[]E]{Value: slices.Clip(v[:len(v)-1])})
	return last, true
}

// Clear empties a slice binding.
func Clear[E any](b *Binding[[]E]) {
	b.Update(func(v []E) []E { return v[:0:0] })
}

// Sort sorts a slice binding in ascending order.
func Sort[E cmp.Ordered](b *Binding[[]E]) {
	b.Update(func(v []E) []E {
		out := slices.Clone(v)
		slices.Sort(out)
		return out
	})
}

// SortFunc sorts a slice binding using cmp.
func SortFunc[E any](b *Binding[[]E], cmp func(a, b E) int) {
	b.Update(func(v []E) []E {
		out := slices.Clone(v)
		slices.SortFunc(out, cmp)
		return out
	})
}
