package watcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/cursorswap/internal/platform"
	"github.com/blackwell-systems/cursorswap/internal/platform/platformtest"
	"github.com/blackwell-systems/cursorswap/internal/store"
)

const (
	notepad = `C:\Windows\System32\notepad.exe`
	calc    = `C:\Windows\System32\calc.exe`
)

// busyHandle is the handle the fake hands out for the first loaded cursor.
const busyHandle = platform.CursorHandle(100)

func startWatcher(t *testing.T, fake *platformtest.Fake, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(setupTestState(t, fake), NewResolver(fake, 0), opts...)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(func() { w.Stop() })
	return w
}

func waitChanges(t *testing.T, w *Watcher, fake *platformtest.Fake, want uint64) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, changes := w.Stats()
		return fake.Exhausted() && changes >= want
	}, 2*time.Second, time.Millisecond)
}

func TestNew_Validation(t *testing.T) {
	fake := platformtest.New()
	state := setupTestState(t, fake)
	resolver := NewResolver(fake, 0)

	_, err := New(nil, resolver)
	assert.Error(t, err)

	_, err = New(state, nil)
	assert.Error(t, err)

	_, err = New(state, resolver, WithInterval(0))
	assert.Error(t, err)

	w, err := New(state, resolver, WithInterval(5*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Millisecond, w.interval)
}

func TestStart_Twice(t *testing.T) {
	fake := platformtest.New(platformtest.Nothing())
	w := startWatcher(t, fake)

	assert.Error(t, w.Start())
}

func TestStop_BeforeStart(t *testing.T) {
	fake := platformtest.New()
	w, err := New(setupTestState(t, fake), NewResolver(fake, 0))
	require.NoError(t, err)

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
	assert.Zero(t, fake.Restores(), "nothing ran, nothing to restore")
}

func TestWatcher_NotepadThenCalc(t *testing.T) {
	fake := platformtest.New(
		platformtest.Under(notepad),
		platformtest.Under(notepad),
		platformtest.Under(notepad),
		platformtest.Under(calc),
	)
	w := startWatcher(t, fake)

	waitChanges(t, w, fake, 2)
	require.NoError(t, w.Stop())

	assert.Equal(t, []platform.CursorHandle{busyHandle}, fake.Applied(), "busy applied exactly once")
	// One restore when the pointer moved to calc, one on shutdown.
	assert.Equal(t, 2, fake.Restores())

	ticks, changes := w.Stats()
	assert.GreaterOrEqual(t, ticks, uint64(4))
	assert.Equal(t, uint64(2), changes)
}

func TestWatcher_NothingUnderPointerKeepsCursor(t *testing.T) {
	fake := platformtest.New(
		platformtest.Under(notepad),
		platformtest.Nothing(),
	)
	w := startWatcher(t, fake)

	waitChanges(t, w, fake, 1)
	ticks, _ := w.Stats()
	require.Eventually(t, func() bool {
		n, _ := w.Stats()
		return n > ticks+10
	}, 2*time.Second, time.Millisecond)

	assert.Zero(t, fake.Restores(), "an empty sample must not restore")
	assert.Equal(t, []platform.CursorHandle{busyHandle}, fake.Applied())

	require.NoError(t, w.Stop())
	assert.Equal(t, 1, fake.Restores())
}

func TestWatcher_ResolutionErrorIsNoProcess(t *testing.T) {
	fake := platformtest.New(
		platformtest.Under(notepad),
		platformtest.Sample{Path: calc, Found: true, Err: errors.New("access denied")},
	)
	w := startWatcher(t, fake)

	waitChanges(t, w, fake, 1)
	ticks, _ := w.Stats()
	require.Eventually(t, func() bool {
		n, _ := w.Stats()
		return n > ticks+10
	}, 2*time.Second, time.Millisecond)

	assert.Zero(t, fake.Restores(), "unreadable process must leave the active cursor in place")
	_, changes := w.Stats()
	assert.Equal(t, uint64(1), changes)
}

func TestWatcher_StopRestoresOnce(t *testing.T) {
	fake := platformtest.New(platformtest.Under(calc))
	w := startWatcher(t, fake)

	require.Eventually(t, fake.Exhausted, 2*time.Second, time.Millisecond)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	assert.Empty(t, fake.Applied())
	assert.Equal(t, 1, fake.Restores(), "shutdown restores even from the default state")
}

func TestRun_ReturnsWhenWindowCloses(t *testing.T) {
	fake := platformtest.New(platformtest.Under(notepad))
	w, err := New(setupTestState(t, fake), NewResolver(fake, 0))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background(), fake) }()

	require.Eventually(t, func() bool { return len(fake.Applied()) == 1 }, 2*time.Second, time.Millisecond)
	fake.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the window closed")
	}
	// Run only returns after the poll loop restored the defaults.
	assert.Equal(t, 1, fake.Restores())
	_, active := w.state.Active()
	assert.False(t, active)
}

func TestRun_ContextCancel(t *testing.T) {
	fake := platformtest.New(platformtest.Nothing())
	w, err := New(setupTestState(t, fake), NewResolver(fake, 0))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, w.Run(ctx, fake))
	assert.Equal(t, 1, fake.Restores())
}

func TestWatcher_RecordsHistory(t *testing.T) {
	st := setupTestStore(t)
	fake := platformtest.New(
		platformtest.Under(notepad),
		platformtest.Under(calc),
	)
	w := startWatcher(t, fake, WithRecorder(st, "run-1"))

	waitChanges(t, w, fake, 2)
	require.NoError(t, w.Stop())

	rows, err := st.RecentActivations(10)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Newest first.
	assert.Equal(t, "shutdown", rows[0].Action)
	assert.Equal(t, "restore", rows[1].Action)
	assert.Equal(t, calc, rows[1].ExePath)
	assert.Equal(t, "activate", rows[2].Action)
	assert.Equal(t, "busy", rows[2].Cursor)
	assert.Equal(t, notepad, rows[2].ExePath)
	for _, r := range rows {
		assert.Equal(t, "run-1", r.RunID)
	}
}

type failingRecorder struct{ calls int }

func (f *failingRecorder) RecordActivation(*store.Activation) error {
	f.calls++
	return errors.New("disk full")
}

func TestWatcher_RecorderFailureKeepsPolling(t *testing.T) {
	rec := &failingRecorder{}
	fake := platformtest.New(
		platformtest.Under(notepad),
		platformtest.Under(calc),
	)
	w := startWatcher(t, fake, WithRecorder(rec, "run-2"))

	waitChanges(t, w, fake, 2)
	require.NoError(t, w.Stop())

	assert.Equal(t, 3, rec.calls)
	assert.Equal(t, 2, fake.Restores())
}
