package config

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Errors returned by configuration operations.
var (
	// ErrUnknownSetting indicates a value was supplied for a path Config does not have.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrValidationFailed indicates a value is out of range.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError describes a rejected configuration value.
type ValidationError struct {
	// Path is the setting path, such as "store.backend".
	Path string
	// Value is the rejected value.
	Value any
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %q)", e.Path, e.Message, fmt.Sprint(e.Value))
}

// Is reports whether target is ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func validLevel(level string) bool {
	_, err := logrus.ParseLevel(level)
	return err == nil
}
