package ripple

import "slices"

// Collection is an indexed sequence whose watchers follow a half-open index
// range [lo, hi). Use math.MaxInt for an open upper bound.
type Collection[E any] interface {
	Len() int
	At(i int) (E, bool)
	Subscribe(lo, hi int, fn func(Context[[]E])) *Guard
}

var (
	_ Collection[int] = (*List[int])(nil)
	_ Collection[int] = Fixed[int](nil)
)

// List is an observable sequence. Every change is delivered to each watcher
// as the watcher's range, clamped to the length after the change; watchers
// whose clamped range is empty are skipped for that change.
//
// List is backed by a Binding, so it shares the binding's lock policy and
// delivery order. Slices handed to watchers must not be modified.
type List[E any] struct {
	cell *Binding[[]E]
}

// NewList creates a list holding a copy of items.
func NewList[E any](items ...E) *List[E] {
	return &List[E]{cell: NewBinding(slices.Clone(items))}
}

// Len returns the number of items.
func (l *List[E]) Len() int {
	return len(l.cell.Get())
}

// At returns the item at i. ok is false when i is out of range.
func (l *List[E]) At(i int) (item E, ok bool) {
	items := l.cell.Get()
	if i < 0 || i >= len(items) {
		return item, false
	}
	return items[i], true
}

// Items returns a copy of the current items.
func (l *List[E]) Items() []E {
	return slices.Clone(l.cell.Get())
}

// Observe exposes the whole list as an observable slice.
func (l *List[E]) Observe() Observable[[]E] {
	return l.cell
}

// Subscribe registers fn for changes, delivering items[lo:hi] clamped to the
// current length.
func (l *List[E]) Subscribe(lo, hi int, fn func(Context[[]E])) *Guard {
	lo = max(lo, 0)
	return l.cell.Subscribe(func(ctx Context[[]E]) {
		items := ctx.Value
		end := min(hi, len(items))
		if lo >= end {
			return
		}
		fn(Context[[]E]{Value: items[lo:end:end], Metadata: ctx.Metadata})
	})
}

// Push appends values.
func (l *List[E]) Push(values ...E) {
	Push(l.cell, values...)
}

// Insert inserts values at i. It panics if i is out of range.
func (l *List[E]) Insert(i int, values ...E) {
	Insert(l.cell, i, values...)
}

// Replace sets the item at i. It reports false, without notifying, when i is
// out of range.
func (l *List[E]) Replace(i int, value E) bool {
	return l.edit(func(items []E) ([]E, bool) {
		if i < 0 || i >= len(items) {
			return nil, false
		}
		out := slices.Clone(items)
		out[i] = value
		return out, true
	})
}

// Remove deletes the item at i and returns it. ok is false, and nothing is
// notified, when i is out of range.
func (l *List[E]) Remove(i int) (removed E, ok bool) {
	ok = l.edit(func(items []E) ([]E, bool) {
		if i < 0 || i >= len(items) {
			return nil, false
		}
		removed = items[i]
		return slices.Delete(slices.Clone(items), i, i+1), true
	})
	return removed, ok
}

// Assign replaces the whole list with a copy of items.
func (l *List[E]) Assign(items []E) {
	l.cell.Set(slices.Clone(items))
}

// Clear removes every item.
func (l *List[E]) Clear() {
	Clear(l.cell)
}

// edit applies fn under the cell's lock and notifies only when fn reports a
// change.
func (l *List[E]) edit(fn func([]E) ([]E, bool)) bool {
	b := l.cell
	b.reg.mu.Lock()
	next, changed := fn(b.value)
	if !changed {
		b.reg.mu.Unlock()
		return false
	}
	b.commitLocked(Context[[]E]{Value: next})
	return true
}

// Fixed is a plain slice viewed as a Collection. It never changes, so
// Subscribe registers nothing.
type Fixed[E any] []E

// Len returns the number of items.
func (f Fixed[E]) Len() int { return len(f) }

// At returns the item at i.
func (f Fixed[E]) At(i int) (item E, ok bool) {
	if i < 0 || i >= len(f) {
		return item, false
	}
	return f[i], true
}

func (f Fixed[E]) Subscribe(int, int, func(Context[[]E])) *Guard { return NopGuard() }
