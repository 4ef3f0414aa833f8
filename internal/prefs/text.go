package prefs

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/prefstore/internal/prefs/codec"
	"github.com/dshills/prefstore/internal/prefs/key"
)

// resolveName is the untyped counterpart of resolve.
func resolveName(name, typeName string) (codec.Dynamic, string, error) {
	if err := key.Check(name); err != nil {
		panic(err)
	}

	c, ok := codec.ByName(typeName)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedType, typeName)
	}
	return c, key.MustBuild(name, typeName), nil
}

// SetText parses text as the type called typeName and stores its
// canonical form under name, exactly as Set would for the parsed value.
func (s *Store) SetText(name, typeName, text string) error {
	if name == "" {
		return ErrEmptyName
	}

	c, k, err := resolveName(name, typeName)
	if err != nil {
		return err
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidText, name)
	}

	v, ok := c.ParseAny(text)
	if !ok {
		return &ParseError{Name: name, Type: typeName, Text: text}
	}
	formatted, _ := c.FormatAny(v)

	s.replace(name, k, c, formatted, v)
	return nil
}

// GetText returns the stored text for name and typeName after checking it
// parses as that type.
func (s *Store) GetText(name, typeName string) (string, error) {
	c, k, err := resolveName(name, typeName)
	if err != nil {
		return "", err
	}

	text, ok := s.lookup(k)
	if !ok {
		return "", notFound(name)
	}
	if _, ok := c.ParseAny(text); !ok {
		return "", &ParseError{Name: name, Type: typeName, Text: text}
	}
	return text, nil
}

// RemoveText deletes the value stored under name for typeName.
func (s *Store) RemoveText(name, typeName string) error {
	_, k, err := resolveName(name, typeName)
	if err != nil {
		return err
	}
	return s.remove(name, k)
}
