// Package config provides the prefstore application configuration.
//
// Values are resolved in order of increasing precedence:
//
//  1. Built-in defaults
//  2. The TOML config file (~/.config/prefstore/config.toml)
//  3. Dotenv files (.env in the working directory)
//  4. PREFSTORE_* environment variables
//
// Command line flags are applied on top by the caller.
//
// Example config.toml:
//
//	[store]
//	path = "/var/lib/app/Settings.bin"
//	backend = "file"
//	autosave = true
//
//	[log]
//	level = "info"
//	format = "text"
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/prefstore/internal/config/loader"
	"github.com/dshills/prefstore/internal/prefs/codec"
	"github.com/dshills/prefstore/internal/prefs/persist"
)

// Backend names accepted in store.backend.
const (
	BackendFile = "file"
	BackendBolt = "bolt"
)

// Log formats accepted in log.format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the resolved application configuration.
type Config struct {
	Store StoreConfig `toml:"store" yaml:"store"`
	Log   LogConfig   `toml:"log" yaml:"log"`
}

// StoreConfig selects and tunes the settings store.
type StoreConfig struct {
	// Path is the settings file.
	Path string `toml:"path" yaml:"path"`
	// Backend is "file" or "bolt".
	Backend string `toml:"backend" yaml:"backend"`
	// Autosave writes the table after every mutation.
	Autosave bool `toml:"autosave" yaml:"autosave"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// envMapping maps environment variables to config paths.
var envMapping = map[string]string{
	"PREFSTORE_FILE":       "store.path",
	"PREFSTORE_BACKEND":    "store.backend",
	"PREFSTORE_AUTOSAVE":   "store.autosave",
	"PREFSTORE_LOG_LEVEL":  "log.level",
	"PREFSTORE_LOG_FORMAT": "log.format",
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Path:     persist.DefaultFileName,
			Backend:  BackendFile,
			Autosave: true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: FormatText,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "prefstore", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "prefstore", "config.toml")
}

// options holds Load settings.
type options struct {
	fs     loader.FileSystem
	dotenv []string
	lookup func(string) (string, bool)
}

// Option configures Load.
type Option func(*options)

// WithFileSystem reads the config file through fsys.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithDotenv replaces the dotenv files that are read.
func WithDotenv(files ...string) Option {
	return func(o *options) {
		o.dotenv = files
	}
}

// WithEnv replaces the environment lookup.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(o *options) {
		o.lookup = lookup
	}
}

// Load resolves the configuration. An empty path uses DefaultPath.
// A missing config file is not an error.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{
		fs:     loader.DefaultFS(),
		dotenv: []string{".env"},
		lookup: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if _, err := loader.NewTOMLLoaderWithFS(o.fs, path).Load(cfg); err != nil {
		return nil, err
	}

	values, err := loader.NewEnvLoader(envMapping).
		WithDotenv(o.dotenv...).
		WithLookup(o.lookup).
		Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.apply(values); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply sets the values keyed by config path.
func (c *Config) apply(values map[string]string) error {
	for path, val := range values {
		switch path {
		case "store.path":
			c.Store.Path = val
		case "store.backend":
			c.Store.Backend = val
		case "store.autosave":
			b, ok := codec.ParseBool(val)
			if !ok {
				return &ValidationError{Path: path, Value: val, Message: "not a boolean"}
			}
			c.Store.Autosave = b
		case "log.level":
			c.Log.Level = val
		case "log.format":
			c.Log.Format = val
		default:
			return fmt.Errorf("%w: %s", ErrUnknownSetting, path)
		}
	}
	return nil
}

// Validate checks the configuration for unsupported values.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return &ValidationError{Path: "store.path", Value: c.Store.Path, Message: "must not be empty"}
	}
	switch c.Store.Backend {
	case BackendFile, BackendBolt:
	default:
		return &ValidationError{Path: "store.backend", Value: c.Store.Backend, Message: "must be file or bolt"}
	}
	if !validLevel(c.Log.Level) {
		return &ValidationError{Path: "log.level", Value: c.Log.Level, Message: "unknown log level"}
	}
	switch c.Log.Format {
	case FormatText, FormatJSON:
	default:
		return &ValidationError{Path: "log.format", Value: c.Log.Format, Message: "must be text or json"}
	}
	return nil
}
