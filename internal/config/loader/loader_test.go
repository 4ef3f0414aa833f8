package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Store struct {
		Path     string `toml:"path"`
		Autosave bool   `toml:"autosave"`
	} `toml:"store"`
	Level string `toml:"level"`
}

func TestTOMLLoader_Load(t *testing.T) {
	fsys := MapFS{"cfg.toml": []byte("level = \"debug\"\n[store]\npath = \"a.bin\"\n")}

	var got sample
	got.Store.Autosave = true
	found, err := NewTOMLLoaderWithFS(fsys, "cfg.toml").Load(&got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "debug", got.Level)
	assert.Equal(t, "a.bin", got.Store.Path)
	assert.True(t, got.Store.Autosave, "absent keys keep their value")
}

func TestTOMLLoader_Missing(t *testing.T) {
	var got sample
	found, err := NewTOMLLoaderWithFS(MapFS{}, "none.toml").Load(&got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTOMLLoader_ParseError(t *testing.T) {
	fsys := MapFS{"bad.toml": []byte("[store]\npath = \n")}

	var got sample
	_, err := NewTOMLLoaderWithFS(fsys, "bad.toml").Load(&got)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "bad.toml", pe.Path)
	assert.Equal(t, 2, pe.Line)
	assert.Contains(t, pe.Error(), "line 2")
}

func TestTOMLLoader_OSFS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.toml")
	require.NoError(t, os.WriteFile(path, []byte("level = \"warn\"\n"), 0o644))

	var got sample
	found, err := NewTOMLLoader(path).Load(&got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "warn", got.Level)
	assert.Equal(t, path, NewTOMLLoader(path).Path())
}

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		err  ParseError
		want string
	}{
		{ParseError{Path: "f", Line: 3, Column: 4, Message: "m"}, "parse error in f at line 3, column 4: m"},
		{ParseError{Path: "f", Line: 3, Message: "m"}, "parse error in f at line 3: m"},
		{ParseError{Path: "f", Message: "m"}, "parse error in f: m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestEnvLoader(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("PREFSTORE_FILE=from-file.bin\nPREFSTORE_LOG_LEVEL=info\n"), 0o644))

	env := map[string]string{"PREFSTORE_LOG_LEVEL": "debug", "PREFSTORE_AUTOSAVE": ""}
	l := NewEnvLoader(map[string]string{
		"PREFSTORE_FILE":      "store.path",
		"PREFSTORE_LOG_LEVEL": "log.level",
		"PREFSTORE_AUTOSAVE":  "store.autosave",
		"PREFSTORE_BACKEND":   "store.backend",
	}).WithDotenv(dotenv, filepath.Join(dir, "missing.env")).
		WithLookup(func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		})

	values, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"store.path":     "from-file.bin",
		"log.level":      "debug",
		"store.autosave": "",
	}, values)
}
