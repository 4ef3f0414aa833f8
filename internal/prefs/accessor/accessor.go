// Package accessor provides typed handles bound to a single setting.
//
// A Setting[T] fixes a name and a value type once; reading or writing it
// goes through the store with that name and type. The name cannot change
// after construction, so a handle always refers to the same stored value.
package accessor

import (
	"fmt"
	"sync/atomic"

	"github.com/dshills/prefstore/internal/prefs"
	"github.com/dshills/prefstore/internal/prefs/notify"
)

// counter backs NextName. It is not persisted, so generated names are
// unique within a process only.
var counter atomic.Uint32

// NextName returns a new generated setting name: eight hex digits in
// space-separated pairs, e.g. "00 00 00 01".
func NextName() string {
	n := counter.Add(1)
	return fmt.Sprintf("%02X %02X %02X %02X", byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
}

// Setting is a typed handle to one value in a store.
type Setting[T any] struct {
	store *prefs.Store
	name  string
}

// New binds name and T in s. An empty name is replaced by NextName. If def
// is given, its first element is written to the store immediately.
func New[T any](s *prefs.Store, name string, def ...T) *Setting[T] {
	if name == "" {
		name = NextName()
	}
	a := &Setting[T]{store: s, name: name}
	if len(def) > 0 {
		_ = a.SetValue(def[0])
	}
	return a
}

// Name returns the bound setting name.
func (a *Setting[T]) Name() string {
	return a.name
}

// Value returns the stored value, or the zero value of T if there is none.
func (a *Setting[T]) Value() T {
	v, _ := prefs.Get[T](a.store, a.name)
	return v
}

// Lookup returns the stored value and whether it was present and valid.
func (a *Setting[T]) Lookup() (T, bool) {
	return prefs.Get[T](a.store, a.name)
}

// SetValue stores v.
func (a *Setting[T]) SetValue(v T) error {
	return prefs.Set(a.store, a.name, v)
}

// Remove deletes the stored value.
func (a *Setting[T]) Remove() error {
	return prefs.Remove[T](a.store, a.name)
}

// OnChange calls fn with the old and new values whenever the stored value
// is replaced. The returned listener can be passed to Mute.
func (a *Setting[T]) OnChange(fn func(prev, next T)) (*notify.Listener, error) {
	l := notify.NewListener(func(c notify.Change) {
		prev, _ := c.OldValue.(T)
		next, _ := c.NewValue.(T)
		fn(prev, next)
	})
	if err := prefs.Listen[T](a.store, a.name, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Mute removes a listener returned by OnChange.
func (a *Setting[T]) Mute(l *notify.Listener) bool {
	return prefs.Mute[T](a.store, a.name, l)
}
