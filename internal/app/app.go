// Package app wires configuration, logging and the settings store together
// for the prefstore command.
package app

import (
	"context"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dshills/prefstore/internal/config"
	"github.com/dshills/prefstore/internal/logging"
	"github.com/dshills/prefstore/internal/prefs"
	"github.com/dshills/prefstore/internal/prefs/notify"
	"github.com/dshills/prefstore/internal/prefs/persist"
	"github.com/dshills/prefstore/internal/prefs/watcher"
)

// Options holds command line overrides. Empty values keep the configured
// setting.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// File is the settings file.
	File string

	// Backend is "file" or "bolt".
	Backend string

	// NoAutosave disables write-through persistence.
	NoAutosave bool

	// LogLevel sets the logging verbosity.
	LogLevel string

	// ConfigOptions are passed to config.Load.
	ConfigOptions []config.Option
}

// Application owns the resolved configuration and the open store.
type Application struct {
	mu sync.Mutex

	cfg   *config.Config
	log   *logrus.Entry
	store *prefs.Store

	watcher *watcher.Watcher
}

// New resolves the configuration and opens the settings store.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.ConfigOptions...)
	if err != nil {
		return nil, NewOperationError("load config", opts.ConfigPath, err)
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, NewOperationError("validate config", opts.ConfigPath, err)
	}

	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, NewOperationError("configure logging", cfg.Log.Level, err)
	}

	app := &Application{cfg: cfg, log: log}
	app.store = prefs.New(
		prefs.WithBackend(newBackend(cfg.Store)),
		prefs.WithAutosave(cfg.Store.Autosave),
		prefs.WithLogger(log),
	)
	_ = app.store.Load()

	return app, nil
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.File != "" {
		cfg.Store.Path = opts.File
	}
	if opts.Backend != "" {
		cfg.Store.Backend = opts.Backend
	}
	if opts.NoAutosave {
		cfg.Store.Autosave = false
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
}

func newBackend(sc config.StoreConfig) persist.Backend {
	if sc.Backend == config.BackendBolt {
		return persist.NewBolt(sc.Path)
	}
	return persist.NewFile(sc.Path)
}

// Config returns the resolved configuration.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Store returns the settings store.
func (app *Application) Store() *prefs.Store {
	return app.store
}

// Log returns the application logger.
func (app *Application) Log() *logrus.Entry {
	return app.log
}

// Watch reloads the store whenever the settings file changes on disk and
// passes the differences to fn. It blocks until ctx is done.
func (app *Application) Watch(ctx context.Context, fn func([]notify.Change)) error {
	w, err := watcher.New(watcher.WithLogger(app.log))
	if err != nil {
		return NewOperationError("watch", app.cfg.Store.Path, err)
	}
	if err := w.Watch(app.store.Backend().Path()); err != nil {
		w.Stop()
		return NewOperationError("watch", app.cfg.Store.Path, err)
	}

	w.OnChange(func(ev watcher.Event) {
		changes, err := app.store.Reload()
		if err != nil {
			app.log.WithError(err).WithField("op", ev.Op.String()).Warn("reload failed")
			return
		}
		if len(changes) > 0 {
			fn(changes)
		}
	})

	if err := w.Start(ctx); err != nil {
		w.Stop()
		return NewOperationError("watch", app.cfg.Store.Path, err)
	}

	app.mu.Lock()
	app.watcher = w
	app.mu.Unlock()

	<-ctx.Done()
	return nil
}

// Shutdown stops the watcher, if any, and, when flush is true, saves the
// store if it holds unsaved changes. A store that was only read is never
// written back.
func (app *Application) Shutdown(flush bool) error {
	app.mu.Lock()
	w := app.watcher
	app.watcher = nil
	app.mu.Unlock()

	if w != nil {
		w.Stop()
	}
	if flush && app.store.Dirty() {
		if err := app.store.Save(); err != nil {
			return NewOperationError("save", app.store.Backend().Path(), err)
		}
	}
	return nil
}
