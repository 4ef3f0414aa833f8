package loader

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvLoader loads configuration values from environment variables and,
// optionally, dotenv files. Real environment variables win over values
// from files.
type EnvLoader struct {
	mapping  map[string]string // Env var -> config path
	dotenv   []string
	lookupFn func(string) (string, bool)
}

// NewEnvLoader creates a loader for the variables in mapping.
func NewEnvLoader(mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		mapping:  mapping,
		lookupFn: os.LookupEnv,
	}
}

// WithDotenv adds dotenv files to read. Missing files are skipped.
func (l *EnvLoader) WithDotenv(files ...string) *EnvLoader {
	l.dotenv = append(l.dotenv, files...)
	return l
}

// WithLookup replaces the environment lookup function.
func (l *EnvLoader) WithLookup(fn func(string) (string, bool)) *EnvLoader {
	l.lookupFn = fn
	return l
}

// Load returns the mapped variables keyed by config path.
// Empty values are treated as set, not as unset.
func (l *EnvLoader) Load() (map[string]string, error) {
	fileVars := make(map[string]string)
	for _, file := range l.dotenv {
		vars, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, &ParseError{Path: file, Message: err.Error(), Err: err}
		}
		for k, v := range vars {
			if _, seen := fileVars[k]; !seen {
				fileVars[k] = v
			}
		}
	}

	values := make(map[string]string)
	for env, path := range l.mapping {
		if val, ok := l.lookupFn(env); ok {
			values[path] = val
		} else if val, ok := fileVars[env]; ok {
			values[path] = val
		}
	}
	return values, nil
}
