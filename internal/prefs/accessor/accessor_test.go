package accessor

import (
	"io"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/prefstore/internal/prefs"
)

func newStore(t *testing.T) *prefs.Store {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	return prefs.Open(filepath.Join(t.TempDir(), "Settings.bin"), prefs.WithLogger(logrus.NewEntry(l)))
}

func TestNextName(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-F]{2} [0-9A-F]{2} [0-9A-F]{2} [0-9A-F]{2}$`)

	seen := make(map[string]bool)
	for i := 0; i < 300; i++ {
		name := NextName()
		assert.Regexp(t, pattern, name)
		assert.False(t, seen[name], "duplicate generated name %q", name)
		seen[name] = true
	}
}

func TestNew_WritesDefault(t *testing.T) {
	s := newStore(t)

	width := New(s, "width", 80)
	assert.Equal(t, "width", width.Name())
	assert.Equal(t, 80, width.Value())

	v, ok := prefs.Get[int](s, "width")
	require.True(t, ok)
	assert.Equal(t, 80, v)
}

func TestNew_NoDefault(t *testing.T) {
	s := newStore(t)

	title := New[string](s, "title")
	_, ok := title.Lookup()
	assert.False(t, ok)
	assert.Equal(t, "", title.Value())
	assert.Equal(t, 0, s.Len())
}

func TestNew_GeneratedName(t *testing.T) {
	s := newStore(t)

	a := New(s, "", true)
	b := New(s, "", true)
	assert.NotEqual(t, a.Name(), b.Name())
	assert.True(t, a.Value())
}

func TestSetting_SetValueAndRemove(t *testing.T) {
	s := newStore(t)
	rate := New[float32](s, "rate")

	require.NoError(t, rate.SetValue(1.25))
	assert.Equal(t, float32(1.25), rate.Value())

	require.NoError(t, rate.Remove())
	assert.ErrorIs(t, rate.Remove(), prefs.ErrKeyNotFound)
}

func TestSetting_OnChange(t *testing.T) {
	s := newStore(t)
	volume := New(s, "volume", 7)

	var gotOld, gotNew int
	l, err := volume.OnChange(func(prev, next int) {
		gotOld, gotNew = prev, next
	})
	require.NoError(t, err)

	require.NoError(t, volume.SetValue(9))
	assert.Equal(t, 7, gotOld)
	assert.Equal(t, 9, gotNew)

	assert.True(t, volume.Mute(l))
	require.NoError(t, volume.SetValue(10))
	assert.Equal(t, 9, gotNew)
}

func TestSetting_UnsupportedType(t *testing.T) {
	s := newStore(t)
	type point struct{ X, Y int }

	p := New(s, "origin", point{1, 2})
	assert.Equal(t, point{}, p.Value())
	assert.ErrorIs(t, p.SetValue(point{}), prefs.ErrUnsupportedType)

	_, err := p.OnChange(func(point, point) {})
	assert.ErrorIs(t, err, prefs.ErrUnsupportedType)
}
