// Package prefs provides a persisted, typed key/value settings store.
//
// A value is addressed by a name and its Go type, so "volume" as an int and
// "volume" as a string are different settings. Values are stored as text
// produced by the codec package and the whole table is written through a
// persist.Backend, by default after every mutation.
//
// Store methods cannot take type parameters, so the typed operations are
// package functions:
//
//	s := prefs.Open("Settings.bin")
//	_ = prefs.Set(s, "volume", 7)
//	v, ok := prefs.Get[int](s, "volume")
//
// A Store is safe for concurrent use. One mutex guards the table and every
// file operation; listeners are called after it is released.
package prefs

import (
	"errors"
	"maps"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dshills/prefstore/internal/prefs/codec"
	"github.com/dshills/prefstore/internal/prefs/key"
	"github.com/dshills/prefstore/internal/prefs/notify"
	"github.com/dshills/prefstore/internal/prefs/persist"
)

// Store is a typed settings table backed by a persist.Backend.
type Store struct {
	mu sync.Mutex

	// Composite key to formatted value
	table map[string]string

	listeners *notify.Registry
	backend   persist.Backend

	// Write-through when true, write-on-demand otherwise
	autosave bool

	// Set by mutations, cleared by a successful Load, Save or Reload
	dirty bool

	log *logrus.Entry
}

// Option configures a Store.
type Option func(*Store)

// WithBackend sets where the table is persisted.
func WithBackend(b persist.Backend) Option {
	return func(s *Store) {
		if b != nil {
			s.backend = b
		}
	}
}

// WithAutosave selects write-through (true, the default) or
// write-on-demand (false) persistence.
func WithAutosave(enabled bool) Option {
	return func(s *Store) {
		s.autosave = enabled
	}
}

// WithLogger sets the logger used to report persistence failures.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates an empty Store. Nothing is read from disk; call Load, or use
// Open, to start from the persisted table.
func New(opts ...Option) *Store {
	s := &Store{
		table:     make(map[string]string),
		listeners: notify.New(),
		backend:   persist.NewFile(persist.DefaultFileName),
		autosave:  true,
		log:       logrus.NewEntry(logrus.StandardLogger()),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.log = s.log.WithField("settings", s.backend.Path())
	return s
}

// Open creates a Store persisted in the binary file at path and loads it.
// A missing or unreadable file leaves the store empty; the failure is
// logged, not returned.
func Open(path string, opts ...Option) *Store {
	opts = append([]Option{WithBackend(persist.NewFile(path))}, opts...)
	s := New(opts...)
	_ = s.Load()
	return s
}

// Autosave reports whether every mutation is persisted immediately.
func (s *Store) Autosave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autosave
}

// SetAutosave switches between write-through and write-on-demand.
func (s *Store) SetAutosave(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autosave = enabled
}

// Backend returns the persistence backend.
func (s *Store) Backend() persist.Backend {
	return s.backend
}

// Len returns the number of stored values.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.table)
}

// Load replaces the table with the persisted one. On any failure the table
// is left empty and the error is returned.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table = make(map[string]string)
	s.dirty = false

	table, err := s.backend.Load()
	if err != nil {
		if errors.Is(err, persist.ErrNotExist) {
			s.log.Debug("no saved settings")
		} else {
			s.log.WithError(err).Warn("loading settings failed, starting empty")
		}
		return err
	}

	s.table = table
	s.log.WithField("count", len(table)).Debug("settings loaded")
	return nil
}

// Save persists the whole table.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// saveLocked persists the table; s.mu must be held. A failure is logged
// and leaves the in-memory table authoritative.
func (s *Store) saveLocked() error {
	if err := s.backend.Save(s.table); err != nil {
		s.log.WithError(err).Warn("saving settings failed")
		return err
	}
	s.dirty = false
	return nil
}

// commitLocked records a mutation and persists it if autosave is on;
// s.mu must be held.
func (s *Store) commitLocked() {
	s.dirty = true
	if s.autosave {
		_ = s.saveLocked()
	}
}

// Dirty reports whether the table has changes that have not been saved.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Clear empties the table. It is persisted only when autosave is enabled
// and save is true.
func (s *Store) Clear(save bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table = make(map[string]string)
	s.dirty = true
	if s.autosave && save {
		_ = s.saveLocked()
	}
}

// Entry is a stored value as seen by listing tools.
type Entry struct {
	// Key is the composite key.
	Key string
	// Name is the setting name, or Key if the key cannot be split.
	Name string
	// Type is the codec type name, empty if the key cannot be split.
	Type string
	// Value is the stored text.
	Value string
}

// Entries returns a snapshot of the table ordered by name, then type.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	snapshot := maps.Clone(s.table)
	s.mu.Unlock()

	entries := make([]Entry, 0, len(snapshot))
	for k, v := range snapshot {
		e := Entry{Key: k, Name: k, Value: v}
		if name, typeName, ok := key.Split(k); ok {
			e.Name, e.Type = name, typeName
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Type < entries[j].Type
	})
	return entries
}

// lookup returns the stored text for k.
func (s *Store) lookup(k string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.table[k]
	return text, ok
}

// replace stores text under k and, if k held a value that c can still
// parse, notifies k's listeners with the old and new values.
func (s *Store) replace(name, k string, c codec.Dynamic, text string, value any) {
	s.mu.Lock()
	oldText, existed := s.table[k]
	delete(s.table, k)
	s.table[k] = text
	s.commitLocked()
	s.mu.Unlock()

	if !existed {
		return
	}
	old, ok := c.ParseAny(oldText)
	if !ok {
		return
	}
	s.listeners.Notify(k, notify.Change{
		Name:     name,
		Type:     c.TypeName(),
		OldValue: old,
		NewValue: value,
	})
}

// remove deletes k, reporting ErrKeyNotFound if it is absent.
func (s *Store) remove(name, k string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.table[k]; !ok {
		return notFound(name)
	}
	delete(s.table, k)
	s.commitLocked()
	return nil
}
