package notify

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	r := New()
	if r == nil {
		t.Fatal("New() returned nil")
	}
	if len(r.Keys()) != 0 {
		t.Errorf("Keys() = %v, want empty", r.Keys())
	}
}

func TestRegistry_NotifyOrder(t *testing.T) {
	r := New()

	var order []string
	var payloads []Change

	first := NewListener(func(c Change) {
		order = append(order, "first")
		payloads = append(payloads, c)
	})
	second := NewListener(func(c Change) {
		order = append(order, "second")
		payloads = append(payloads, c)
	})

	r.Add("k", first)
	r.Add("k", second)

	want := Change{Name: "volume", Type: "int", OldValue: 7, NewValue: 9}
	r.Notify("k", want)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("order = %v, want [first second]", order)
	}
	for i, got := range payloads {
		if got != want {
			t.Errorf("payload[%d] = %+v, want %+v", i, got, want)
		}
	}
}

func TestRegistry_NotifyOtherKey(t *testing.T) {
	r := New()

	called := false
	r.Add("a", NewListener(func(Change) { called = true }))
	r.Notify("b", Change{})

	if called {
		t.Error("listener for key a was called for key b")
	}
}

func TestRegistry_Remove(t *testing.T) {
	r := New()

	var calls int
	l := NewListener(func(Change) { calls++ })
	other := NewListener(func(Change) {})

	r.Add("k", l)
	r.Add("k", other)

	if !r.Remove("k", l) {
		t.Fatal("Remove() = false, want true")
	}
	r.Notify("k", Change{})
	if calls != 0 {
		t.Errorf("removed listener called %d times", calls)
	}
	if !r.Has("k") {
		t.Error("key deleted while a listener remains")
	}

	if !r.Remove("k", other) {
		t.Fatal("Remove(other) = false, want true")
	}
	if r.Has("k") {
		t.Error("key still present after last listener removed")
	}
	if r.Remove("k", other) {
		t.Error("Remove on empty key = true, want false")
	}
}

func TestRegistry_RemoveUnknownListener(t *testing.T) {
	r := New()
	r.Add("k", NewListener(func(Change) {}))

	if r.Remove("k", NewListener(func(Change) {})) {
		t.Error("Remove of unregistered handle = true, want false")
	}
	if len(r.Listeners("k")) != 1 {
		t.Errorf("Listeners() len = %d, want 1", len(r.Listeners("k")))
	}
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	r := New()

	var calls int
	l := NewListener(func(Change) { calls++ })
	r.Add("k", l)
	r.Add("k", l)

	r.Notify("k", Change{})
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}

	r.Remove("k", l)
	calls = 0
	r.Notify("k", Change{})
	if calls != 1 {
		t.Errorf("calls after one Remove = %d, want 1", calls)
	}
}

func TestRegistry_ListenerRemovesItself(t *testing.T) {
	r := New()

	var self *Listener
	var calls int
	self = NewListener(func(Change) {
		calls++
		r.Remove("k", self)
	})
	r.Add("k", self)

	r.Notify("k", Change{})
	r.Notify("k", Change{})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRegistry_Clear(t *testing.T) {
	r := New()
	r.Add("a", NewListener(func(Change) {}))
	r.Add("b", NewListener(func(Change) {}))

	if got := r.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Keys() = %v, want [a b]", got)
	}

	r.Clear()
	if len(r.Keys()) != 0 {
		t.Errorf("Keys() after Clear = %v", r.Keys())
	}
}

func TestNilListener_Panics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"NewListener", func() { NewListener(nil) }},
		{"Add", func() { New().Add("k", nil) }},
		{"Call", func() { (*Listener)(nil).Call(Change{}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, ErrNilListener) {
					t.Errorf("panic = %v, want ErrNilListener", r)
				}
			}()
			tt.fn()
		})
	}
}
