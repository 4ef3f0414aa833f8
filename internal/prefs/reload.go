package prefs

import (
	"errors"
	"sort"

	"github.com/dshills/prefstore/internal/prefs/codec"
	"github.com/dshills/prefstore/internal/prefs/key"
	"github.com/dshills/prefstore/internal/prefs/notify"
	"github.com/dshills/prefstore/internal/prefs/persist"
)

// Reload reads the persisted table again, for example after another
// program replaced the settings file, and returns what differs from the
// table in memory, ordered by key.
//
// A change with a nil OldValue was added and one with a nil NewValue was
// removed. Listeners are called only for replaced values, as with Set.
// Unlike Load, a failed Reload keeps the current table; a missing file
// counts as an empty table.
func (s *Store) Reload() ([]notify.Change, error) {
	s.mu.Lock()
	table, err := s.backend.Load()
	if err != nil {
		if !errors.Is(err, persist.ErrNotExist) {
			s.mu.Unlock()
			s.log.WithError(err).Warn("reloading settings failed, keeping current values")
			return nil, err
		}
		table = make(map[string]string)
	}
	previous := s.table
	s.table = table
	s.dirty = false
	s.mu.Unlock()

	keys := make([]string, 0, len(previous)+len(table))
	for k := range previous {
		keys = append(keys, k)
	}
	for k := range table {
		if _, ok := previous[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var changes []notify.Change
	for _, k := range keys {
		oldText, hadOld := previous[k]
		newText, hasNew := table[k]
		if hadOld && hasNew && oldText == newText {
			continue
		}

		change, c := describe(k)
		oldOK, newOK := true, true
		if hadOld {
			change.OldValue, oldOK = decode(c, oldText)
		}
		if hasNew {
			change.NewValue, newOK = decode(c, newText)
		}
		changes = append(changes, change)

		if hadOld && hasNew && oldOK && newOK {
			s.listeners.Notify(k, change)
		}
	}

	s.log.WithField("changes", len(changes)).Debug("settings reloaded")
	return changes, nil
}

// describe returns a Change naming k and the codec for k's type, if any.
func describe(k string) (notify.Change, codec.Dynamic) {
	name, typeName, ok := key.Split(k)
	if !ok {
		return notify.Change{Name: k}, nil
	}
	c, _ := codec.ByName(typeName)
	return notify.Change{Name: name, Type: typeName}, c
}

// decode parses text with c. When that is impossible it returns the raw
// text and false.
func decode(c codec.Dynamic, text string) (any, bool) {
	if c != nil {
		if v, ok := c.ParseAny(text); ok {
			return v, true
		}
	}
	return text, false
}
