package watcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/prefstore/internal/prefs/persist"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.String())
	}
}

func TestWatcher_DetectsAtomicSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Settings.bin")

	w, err := New(WithDebounce(20*time.Millisecond), WithLogger(quietLogger()))
	require.NoError(t, err)
	defer w.Stop()

	rec := &recorder{}
	w.OnChange(rec.handle)
	require.NoError(t, w.Watch(path))
	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.IsRunning())

	require.NoError(t, persist.NewFile(path).Save(map[string]string{"k": "v"}))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	for _, e := range rec.snapshot() {
		assert.Equal(t, abs, e.Path, "events for other files must be filtered")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := New(WithDebounce(0), WithLogger(quietLogger()))
	require.NoError(t, err)
	defer w.Stop()

	rec := &recorder{}
	w.OnChange(rec.handle)
	require.NoError(t, w.Watch(filepath.Join(dir, "Settings.bin")))
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestWatcher_Remove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Settings.bin")
	require.NoError(t, os.WriteFile(path, []byte{0, 0, 0, 0}, 0o644))

	w, err := New(WithDebounce(0), WithLogger(quietLogger()))
	require.NoError(t, err)
	defer w.Stop()

	rec := &recorder{}
	w.OnChange(rec.handle)
	require.NoError(t, w.Watch(path))
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		for _, e := range rec.snapshot() {
			if e.Op == OpRemove {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_Lifecycle(t *testing.T) {
	w, err := New(WithLogger(quietLogger()))
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	assert.ErrorIs(t, w.Start(context.Background()), ErrRunning)

	w.Stop()
	w.Stop()
	assert.False(t, w.IsRunning())
	assert.ErrorIs(t, w.Start(context.Background()), ErrClosed)
	assert.ErrorIs(t, w.Watch("x"), ErrClosed)
}

func TestWatcher_HandlerPanicIsContained(t *testing.T) {
	w, err := New(WithDebounce(0), WithLogger(quietLogger()))
	require.NoError(t, err)
	defer w.Stop()

	rec := &recorder{}
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(rec.handle)

	w.emitEvent(Event{Path: "p", Op: OpWrite})
	assert.Len(t, rec.snapshot(), 1)
}

func TestWatcher_QueueCoalesces(t *testing.T) {
	w, err := New(WithLogger(quietLogger()))
	require.NoError(t, err)
	defer w.Stop()

	now := time.Now()
	w.queueEvent(Event{Path: "p", Op: OpCreate, Time: now})
	w.queueEvent(Event{Path: "p", Op: OpWrite, Time: now.Add(time.Millisecond)})
	assert.Equal(t, OpCreate, w.pendingFiles["p"].Op)

	w.queueEvent(Event{Path: "p", Op: OpRemove, Time: now.Add(2 * time.Millisecond)})
	assert.Equal(t, OpRemove, w.pendingFiles["p"].Op)
}
