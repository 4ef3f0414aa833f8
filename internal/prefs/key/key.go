// Package key builds the composite keys used by the settings table.
//
// A composite key joins a user-facing setting name with the name of the
// value type stored under it, so the same name can hold one value per type.
package key

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter separates the setting name from the type name.
const Delimiter = " :1a3b5c7d9: "

// reserved is the character that may never appear in a setting name.
const reserved = ":"

// ErrInvalidKeyName indicates a setting name contains the reserved ':'.
var ErrInvalidKeyName = errors.New("invalid key name")

// Check reports whether name may be used as a setting name.
func Check(name string) error {
	if strings.Contains(name, reserved) {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidKeyName, name, reserved)
	}
	return nil
}

// Build returns the composite key for name and typeName.
func Build(name, typeName string) (string, error) {
	if err := Check(name); err != nil {
		return "", err
	}
	return name + Delimiter + typeName, nil
}

// MustBuild is like Build but panics if name is invalid.
func MustBuild(name, typeName string) string {
	k, err := Build(name, typeName)
	if err != nil {
		panic(err)
	}
	return k
}

// Split breaks a composite key into its name and type name.
// It reports false if composite was not produced by Build.
func Split(composite string) (name, typeName string, ok bool) {
	name, typeName, ok = strings.Cut(composite, Delimiter)
	if !ok || strings.Contains(name, reserved) {
		return "", "", false
	}
	return name, typeName, true
}
