package ripple

import (
	"slices"
	"strconv"
	"testing"
)

func TestMap(t *testing.T) {
	b := NewBinding(2)
	var calls int
	squared := Map[int](b, func(v int) int {
		calls++
		return v * v
	})

	if squared.Get() != 4 || squared.Get() != 4 {
		t.Errorf("expected 4, got %d", squared.Get())
	}
	if calls < 2 {
		t.Errorf("expected Map to recompute on every Get, got %d calls", calls)
	}

	tag := NewKey[string]("tag")
	c, g := collect(squared)
	defer g.Release()
	b.SetWith(3, tag.Field("x"))

	if got := c.snapshot(); !slices.Equal(got, []int{9}) {
		t.Errorf("expected [9], got %v", got)
	}
	if v, _ := tag.From(c.context(0).Metadata); v != "x" {
		t.Errorf("expected metadata to flow through Map, got %q", v)
	}
}

func TestMap_Chained(t *testing.T) {
	b := NewBinding(5)
	label := Map(Map[int](b, func(v int) int { return v + 1 }), strconv.Itoa)

	if label.Get() != "6" {
		t.Errorf("expected 6, got %s", label.Get())
	}
}

func TestCombine(t *testing.T) {
	a := NewBinding(1)
	b := NewBinding("x")
	pair := Combine[int, string](a, b)

	if got := pair.Get(); got.First != 1 || got.Second != "x" {
		t.Errorf("expected {1 x}, got %+v", got)
	}

	c, g := collect(pair)
	a.Set(2)
	b.Set("y")

	got := c.snapshot()
	expected := []Pair[int, string]{{First: 2, Second: "x"}, {First: 2, Second: "y"}}
	if !slices.Equal(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}

	g.Release()
	if a.Watchers() != 0 || b.Watchers() != 0 {
		t.Errorf("expected both sides released, got %d and %d", a.Watchers(), b.Watchers())
	}
}

func TestCombineWith(t *testing.T) {
	first := NewBinding("Ada")
	last := NewBinding("Lovelace")
	full := CombineWith[string, string](first, last, func(a, b string) string { return a + " " + b })

	if full.Get() != "Ada Lovelace" {
		t.Errorf("expected Ada Lovelace, got %s", full.Get())
	}
	c, g := collect(full)
	defer g.Release()
	first.Set("Grace")
	if got := c.snapshot(); !slices.Equal(got, []string{"Grace Lovelace"}) {
		t.Errorf("expected [Grace Lovelace], got %v", got)
	}
}

func TestAddMaxMin(t *testing.T) {
	a := NewBinding(3)
	b := NewBinding(8)

	if got := Add[int](a, b).Get(); got != 11 {
		t.Errorf("expected 11, got %d", got)
	}
	if got := Max[int](a, b).Get(); got != 8 {
		t.Errorf("expected 8, got %d", got)
	}
	if got := Min[int](a, b).Get(); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}
