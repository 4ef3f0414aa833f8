package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// File persists the table in the binary layout at a single path.
type File struct {
	path string
	perm fs.FileMode
}

// NewFile returns a File backend for path. An empty path means
// DefaultFileName in the working directory.
func NewFile(path string) *File {
	if path == "" {
		path = DefaultFileName
	}
	return &File{path: path, perm: 0o644}
}

// Path returns the canonical file path.
func (f *File) Path() string {
	return f.path
}

// Load reads and decodes the whole file.
func (f *File) Load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, f.path)
		}
		return nil, fmt.Errorf("reading settings file %s: %w", f.path, err)
	}

	table, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f.path, err)
	}
	return table, nil
}

// Save writes table to a temporary file beside the canonical one, syncs
// it, and renames it into place. The previous file stays intact until the
// rename, so a failed save never leaves a truncated settings file.
func (f *File) Save(table map[string]string) (err error) {
	dir, base := filepath.Split(f.path)
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating settings directory: %w", err)
		}
	}

	tmpPath := filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, f.perm)
	if err != nil {
		return fmt.Errorf("creating temporary settings file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = Encode(tmp, table); err != nil {
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err = os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("replacing %s: %w", f.path, err)
	}
	return nil
}
