// Package codec converts setting values to and from their stored text form.
//
// The set of supported types is closed: each type has exactly one Codec,
// declared in this package. For selects the codec for a type parameter
// through a type switch on its zero value, so a store generic over T never
// consults a runtime type table. ByName gives an untyped view of the same
// codecs for tools that only know a type by its name.
package codec

import (
	"sort"
)

// Codec parses and formats values of a single type.
type Codec[T any] struct {
	name   string
	parse  func(string) (T, bool)
	format func(T) string
}

// TypeName returns the fully qualified name of the codec's type.
// It is the type component of every composite key built for T.
func (c Codec[T]) TypeName() string {
	return c.name
}

// Parse converts stored text to a value. It never panics; ok is false
// when text is not a valid representation.
func (c Codec[T]) Parse(text string) (T, bool) {
	return c.parse(text)
}

// Format returns the canonical text form of v.
func (c Codec[T]) Format(v T) string {
	return c.format(v)
}

// ParseAny implements Dynamic.
func (c Codec[T]) ParseAny(text string) (any, bool) {
	v, ok := c.parse(text)
	if !ok {
		return nil, false
	}
	return v, true
}

// FormatAny implements Dynamic.
func (c Codec[T]) FormatAny(v any) (string, bool) {
	tv, ok := v.(T)
	if !ok {
		return "", false
	}
	return c.format(tv), true
}

// Dynamic is the type-erased view of a Codec.
type Dynamic interface {
	// TypeName returns the fully qualified name of the codec's type.
	TypeName() string

	// ParseAny parses text into a value of the codec's type.
	ParseAny(text string) (any, bool)

	// FormatAny formats v, reporting false if v has the wrong type.
	FormatAny(v any) (string, bool)
}

// For returns the codec for T. It reports false when T is not one of the
// supported types; callers degrade to a failed operation in that case.
func For[T any]() (Codec[T], bool) {
	var zero T
	var c any

	switch any(zero).(type) {
	case string:
		c = String
	case bool:
		c = Bool
	case int:
		c = Int
	case int8:
		c = Int8
	case int16:
		c = Int16
	case int32:
		c = Int32
	case int64:
		c = Int64
	case uint:
		c = Uint
	case uint8:
		c = Uint8
	case uint16:
		c = Uint16
	case uint32:
		c = Uint32
	case uint64:
		c = Uint64
	case float32:
		c = Float32
	case float64:
		c = Float64
	case decimalType:
		c = Decimal
	case timeType:
		c = Time
	case durationType:
		c = Duration
	}

	typed, ok := c.(Codec[T])
	return typed, ok
}

// Supported reports whether T has a codec.
func Supported[T any]() bool {
	_, ok := For[T]()
	return ok
}

var byName = func() map[string]Dynamic {
	m := make(map[string]Dynamic, len(all))
	for _, c := range all {
		m[c.TypeName()] = c
	}
	return m
}()

// ByName returns the codec whose TypeName is name.
func ByName(name string) (Dynamic, bool) {
	c, ok := byName[name]
	return c, ok
}

// Names returns the type names of all codecs, sorted.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
