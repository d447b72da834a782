package ripple

import "testing"

func TestConstant(t *testing.T) {
	c := Constant("fixed")
	if c.Get() != "fixed" {
		t.Errorf("expected fixed, got %s", c.Get())
	}

	g := c.Subscribe(func(Context[string]) {
		t.Error("constant must never notify")
	})
	g.Release()
}

func TestLazy_ComputesOnce(t *testing.T) {
	var calls int
	l := Lazy(func() int {
		calls++
		return 42
	})

	if calls != 0 {
		t.Errorf("expected no computation before Get, got %d", calls)
	}
	for i := 0; i < 3; i++ {
		if l.Get() != 42 {
			t.Errorf("expected 42, got %d", l.Get())
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 computation, got %d", calls)
	}
}

func TestFunc(t *testing.T) {
	b := NewBinding(3)
	f := Func(func() int { return b.Get() * 10 }, func(fn func(Context[int])) *Guard {
		return b.Subscribe(fn)
	})

	if f.Get() != 30 {
		t.Errorf("expected 30, got %d", f.Get())
	}

	c, g := collect(f)
	defer g.Release()
	b.Set(4)

	if c.len() != 1 || c.snapshot()[0] != 4 {
		t.Errorf("expected forwarded [4], got %v", c.snapshot())
	}
}

func TestFunc_NilSubscribe(t *testing.T) {
	f := Func(func() int { return 1 }, nil)
	g := f.Subscribe(func(Context[int]) {})
	if g == nil {
		t.Fatal("expected a guard")
	}
	g.Release()
}

func TestOptional(t *testing.T) {
	some := Some(5)
	none := None[int]()

	if v, ok := some.Value(); !ok || v != 5 {
		t.Errorf("expected (5, true), got (%d, %v)", v, ok)
	}
	if none.IsSome() {
		t.Error("expected None to be empty")
	}
	if none.Or(9) != 9 || some.Or(9) != 5 {
		t.Errorf("expected Or fallbacks 9 and 5, got %d and %d", none.Or(9), some.Or(9))
	}
	if some.String() != "Some(5)" || none.String() != "None" {
		t.Errorf("unexpected strings %q and %q", some.String(), none.String())
	}

	var zero Optional[string]
	if zero.IsSome() {
		t.Error("expected zero optional to be empty")
	}
}
