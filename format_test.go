package ripple

import (
	"slices"
	"testing"
)

func TestSprintf(t *testing.T) {
	name := NewBinding("world")
	count := NewBinding(3)
	msg := Sprintf("hello %s (%d)", Any[string](name), Any[int](count))

	if msg.Get() != "hello world (3)" {
		t.Errorf("expected 'hello world (3)', got %q", msg.Get())
	}

	c, g := collect(msg)
	name.Set("ripple")
	count.Set(4)

	expected := []string{"hello ripple (3)", "hello ripple (4)"}
	if got := c.snapshot(); !slices.Equal(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}

	g.Release()
	if name.Watchers() != 0 || count.Watchers() != 0 {
		t.Error("expected all argument subscriptions released")
	}
}

func TestSprintf_UsesNotifiedValue(t *testing.T) {
	b := NewBinding(1)
	d := Distinct[int](b)
	defer d.Release()

	// d.Get reads upstream; the rendered text must use the value carried by
	// the notification.
	msg := Sprintf("v=%v", Any[int](d))
	c, g := collect(msg)
	defer g.Release()

	b.Set(2)
	if got := c.snapshot(); !slices.Equal(got, []string{"v=2"}) {
		t.Errorf("expected [v=2], got %v", got)
	}
}

func TestSprintf_NoArgs(t *testing.T) {
	msg := Sprintf("static")
	if msg.Get() != "static" {
		t.Errorf("expected static, got %q", msg.Get())
	}
	msg.Subscribe(func(Context[string]) {}).Release()
}
