// Package persist stores the settings table on disk.
//
// The binary layout is:
//
//	int32  record count                 (little-endian)
//	repeated record count times:
//	    int32  key length               (UTF-16 code units)
//	    int32  value length             (UTF-16 code units)
//	    bytes  key                      (UTF-16LE, 2 bytes per unit)
//	    bytes  value                    (UTF-16LE, 2 bytes per unit)
//
// The File backend writes this layout through a temporary file that is
// renamed over the canonical path once fully written and synced.
package persist

import (
	"errors"
)

// DefaultFileName is the settings file name used when none is configured.
const DefaultFileName = "Settings.bin"

// Errors returned by persistence operations.
var (
	// ErrCorrupt indicates the stored data does not decode as a table.
	ErrCorrupt = errors.New("corrupt settings data")

	// ErrNotExist indicates nothing has been saved yet.
	ErrNotExist = errors.New("settings file does not exist")

	// ErrTooLarge indicates a string or table exceeds the int32 length fields.
	ErrTooLarge = errors.New("settings data too large")

	// ErrInvalidText indicates a key or value is not valid UTF-8 and
	// cannot be stored without altering it.
	ErrInvalidText = errors.New("settings text is not valid UTF-8")
)

// Backend loads and saves a whole settings table.
type Backend interface {
	// Load returns the persisted table. It returns an error wrapping
	// ErrNotExist if nothing was saved and ErrCorrupt if the data is
	// malformed; a failed Load never returns a partial table.
	Load() (map[string]string, error)

	// Save replaces the persisted table with table.
	Save(table map[string]string) error

	// Path returns the location of the persisted data.
	Path() string
}
