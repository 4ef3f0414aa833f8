// Package notify provides change notification for settings updates.
//
// Listeners are registered per composite key and called in registration
// order when the value stored under that key is replaced. A Listener is a
// handle: the pointer passed to Add is the one Remove looks for, so a caller
// can mute exactly the callback it registered.
package notify

import (
	"errors"
	"sort"
	"sync"
)

// ErrNilListener is the panic value used when a nil listener is registered
// or invoked.
var ErrNilListener = errors.New("nil listener")

// Change describes a replaced setting value.
type Change struct {
	// Name is the user-facing setting name.
	Name string

	// Type is the codec type name of the value.
	Type string

	// OldValue is the value before the change.
	OldValue any

	// NewValue is the value after the change.
	NewValue any
}

// Listener is a registered change callback.
type Listener struct {
	fn func(Change)
}

// NewListener wraps fn as a Listener handle. It panics if fn is nil.
func NewListener(fn func(Change)) *Listener {
	if fn == nil {
		panic(ErrNilListener)
	}
	return &Listener{fn: fn}
}

// Call invokes the listener.
func (l *Listener) Call(change Change) {
	if l == nil || l.fn == nil {
		panic(ErrNilListener)
	}
	l.fn(change)
}

// Registry maps composite keys to ordered listener lists.
type Registry struct {
	mu        sync.RWMutex
	listeners map[string][]*Listener
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		listeners: make(map[string][]*Listener),
	}
}

// Add appends l to the listeners of key. The same handle may be added more
// than once and is then called once per registration.
func (r *Registry) Add(key string, l *Listener) {
	if l == nil {
		panic(ErrNilListener)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[key] = append(r.listeners[key], l)
}

// Remove drops the most recent registration of l for key and reports
// whether one was found. Removing the last listener deletes the key.
func (r *Registry) Remove(key string, l *Listener) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.listeners[key]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i] != l {
			continue
		}
		list = append(list[:i:i], list[i+1:]...)
		if len(list) == 0 {
			delete(r.listeners, key)
		} else {
			r.listeners[key] = list
		}
		return true
	}
	return false
}

// Listeners returns a copy of the listeners registered for key.
func (r *Registry) Listeners(key string) []*Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.listeners[key]
	if len(list) == 0 {
		return nil
	}
	result := make([]*Listener, len(list))
	copy(result, list)
	return result
}

// Has reports whether key has at least one listener.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.listeners[key]
	return ok
}

// Keys returns every key with listeners, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.listeners))
	for k := range r.listeners {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Notify calls every listener of key with change, in registration order.
// Listeners run on the calling goroutine, outside the registry lock, so
// they may add or remove listeners themselves.
func (r *Registry) Notify(key string, change Change) {
	for _, l := range r.Listeners(key) {
		l.Call(change)
	}
}

// Clear removes every listener.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = make(map[string][]*Listener)
}
