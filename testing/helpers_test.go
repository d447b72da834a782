package testing

import (
	"context"
	"testing"
	"time"

	"github.com/zoobzio/ripple"
)

func TestWaitFor(t *testing.T) {
	t.Run("condition met immediately", func(t *testing.T) {
		result := WaitFor(t, 100*time.Millisecond, func() bool {
			return true
		})
		if !result {
			t.Error("expected WaitFor to return true")
		}
	})

	t.Run("condition never met", func(t *testing.T) {
		result := WaitFor(t, 50*time.Millisecond, func() bool {
			return false
		})
		if result {
			t.Error("expected WaitFor to return false")
		}
	})

	t.Run("condition met after delay", func(t *testing.T) {
		start := time.Now()
		result := WaitFor(t, time.Second, func() bool {
			return time.Since(start) > 30*time.Millisecond
		})
		if !result {
			t.Error("expected WaitFor to return true")
		}
	})
}

func TestRecorder(t *testing.T) {
	b := ripple.NewBinding(0)
	r := Record[int](t, b)

	b.Set(1)
	b.SetWith(2, ripple.NewKey[string]("origin").Field("test"))

	RequireValues(t, r, 1, 2)

	last, ok := r.Last()
	if !ok || last != 2 {
		t.Errorf("expected last 2, got %d (%v)", last, ok)
	}
	if origin, _ := ripple.NewKey[string]("origin").From(r.Metadata(1)); origin != "test" {
		t.Errorf("expected origin 'test', got %q", origin)
	}

	r.Release()
	b.Set(3)
	if r.Len() != 2 {
		t.Errorf("expected 2 notifications after release, got %d", r.Len())
	}
}

func TestRecorder_WaitForLen(t *testing.T) {
	b := ripple.NewBinding("")
	r := Record[string](t, b)

	go b.Set("async")

	if !r.WaitForLen(t, 1, time.Second) {
		t.Fatal("expected a notification")
	}
	RequireValue[string](t, b, "async")
}

func TestEmptyRecorder(t *testing.T) {
	r := Record[int](t, ripple.Constant(1))
	if _, ok := r.Last(); ok {
		t.Error("expected no value")
	}
	if r.Len() != 0 {
		t.Errorf("expected 0 notifications, got %d", r.Len())
	}
}

func TestNewTestSource(t *testing.T) {
	s, ch := NewTestSource(t)
	r := Record[TestConfig](t, s)

	ch <- []byte(`{"port": 8080, "host": "localhost"}`)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ch <- []byte(`{"port": 9090, "host": "localhost"}`)
	if !s.Process(context.Background()) {
		t.Fatal("expected Process to consume a payload")
	}

	got := r.Values()
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[1].Port != 9090 {
		t.Errorf("expected port 9090, got %d", got[1].Port)
	}
}
