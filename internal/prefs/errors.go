package prefs

import (
	"errors"
	"fmt"
)

// Errors returned by store operations.
var (
	// ErrEmptyName indicates Set was called without a setting name.
	ErrEmptyName = errors.New("empty setting name")

	// ErrUnsupportedType indicates the value type has no codec.
	ErrUnsupportedType = errors.New("unsupported setting type")

	// ErrKeyNotFound indicates no value is stored for the name and type.
	ErrKeyNotFound = errors.New("setting not found")

	// ErrInvalidText indicates a setting name is not valid UTF-8.
	ErrInvalidText = errors.New("setting name is not valid UTF-8")

	// ErrParseFailure indicates stored text does not parse as the requested type.
	ErrParseFailure = errors.New("stored value does not parse")
)

// ParseError is returned when stored or supplied text is not a valid
// representation of the requested type.
type ParseError struct {
	// Name is the setting name.
	Name string
	// Type is the codec type name.
	Type string
	// Text is the text that failed to parse.
	Text string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s: %q is not a valid %s", e.Name, e.Text, e.Type)
}

// Is implements error matching for ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParseFailure
}
