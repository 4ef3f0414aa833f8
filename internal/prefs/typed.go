package prefs

import (
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/dshills/prefstore/internal/prefs/codec"
	"github.com/dshills/prefstore/internal/prefs/key"
	"github.com/dshills/prefstore/internal/prefs/notify"
)

// resolve returns the codec for T and the composite key for name. A name
// containing ':' is a programming error and panics, whether or not T is
// supported.
func resolve[T any](name string) (codec.Codec[T], string, error) {
	if err := key.Check(name); err != nil {
		panic(err)
	}

	c, ok := codec.For[T]()
	if !ok {
		return c, "", fmt.Errorf("%w: %s", ErrUnsupportedType, reflect.TypeOf((*T)(nil)).Elem())
	}
	return c, key.MustBuild(name, c.TypeName()), nil
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", ErrKeyNotFound, name)
}

// Get returns the value stored for name as a T. It reports false if T is
// unsupported, nothing is stored, or the stored text does not parse.
func Get[T any](s *Store, name string) (T, bool) {
	v, err := Lookup[T](s, name)
	return v, err == nil
}

// Lookup is like Get but says why a value could not be returned: the error
// wraps ErrUnsupportedType or ErrKeyNotFound, or is a *ParseError.
// A failed Lookup never modifies the store.
func Lookup[T any](s *Store, name string) (T, error) {
	var zero T

	c, k, err := resolve[T](name)
	if err != nil {
		return zero, err
	}

	text, ok := s.lookup(k)
	if !ok {
		return zero, notFound(name)
	}

	v, ok := c.Parse(text)
	if !ok {
		return zero, &ParseError{Name: name, Type: c.TypeName(), Text: text}
	}
	return v, nil
}

// Set stores value under name, replacing any value of the same type.
// A value whose text form its codec would not read back, such as a string
// that is not valid UTF-8, is rejected with a *ParseError.
//
// Each onChange listener is registered for name and T first, even when the
// value turns out to be unchanged. If a value was already stored, every
// listener for name and T is then called, in registration order, with the
// old and new values.
//
// With autosave enabled the table is persisted before listeners run. A
// failed save is logged and does not undo the change: Set reports only
// whether the value was accepted. Use Save to learn whether it reached disk.
func Set[T any](s *Store, name string, value T, onChange ...*notify.Listener) error {
	if name == "" {
		return ErrEmptyName
	}

	c, k, err := resolve[T](name)
	if err != nil {
		return err
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidText, name)
	}

	text := c.Format(value)
	if _, ok := c.Parse(text); !ok {
		return &ParseError{Name: name, Type: c.TypeName(), Text: text}
	}

	for _, l := range onChange {
		s.listeners.Add(k, l)
	}

	s.replace(name, k, c, text, value)
	return nil
}

// Remove deletes the value stored under name for T.
// Removing an absent value returns ErrKeyNotFound and changes nothing.
// Listeners stay registered.
func Remove[T any](s *Store, name string) error {
	_, k, err := resolve[T](name)
	if err != nil {
		return err
	}
	return s.remove(name, k)
}

// Has reports whether a value is stored under name for T.
func Has[T any](s *Store, name string) bool {
	_, k, err := resolve[T](name)
	if err != nil {
		return false
	}
	_, ok := s.lookup(k)
	return ok
}

// Listen registers l to be called when the value of name as a T is
// replaced. It panics if l is nil.
func Listen[T any](s *Store, name string, l *notify.Listener) error {
	_, k, err := resolve[T](name)
	if err != nil {
		return err
	}
	s.listeners.Add(k, l)
	return nil
}

// Mute removes one registration of l for name and T and reports whether
// it was registered.
func Mute[T any](s *Store, name string, l *notify.Listener) bool {
	_, k, err := resolve[T](name)
	if err != nil {
		return false
	}
	return s.listeners.Remove(k, l)
}
