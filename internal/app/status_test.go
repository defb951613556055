package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/cursorswap/internal/platform/platformtest"
	"github.com/blackwell-systems/cursorswap/internal/store"
)

func TestPrintStatus_Stopped(t *testing.T) {
	path := useConfig(t, sampleConfig)
	dir := t.TempDir()

	var buf bytes.Buffer
	err := printStatus(&buf, filepath.Join(dir, "cursorswap.pid"), filepath.Join(dir, "history.db"), platformtest.New())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "stopped")
	assert.Contains(t, out, "system cursors can be changed")
	assert.Contains(t, out, path+" · 2 cursors · 2 applications")
	assert.Contains(t, out, "history off")
	assert.Contains(t, out, "no history recorded")
}

func TestPrintStatus_RunningWithHistory(t *testing.T) {
	useConfig(t, sampleConfig)
	dir := t.TempDir()

	pidFile := filepath.Join(dir, "cursorswap.pid")
	require.NoError(t, os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())+"\n"), 0644))

	dbFile := filepath.Join(dir, "history.db")
	st, err := store.New(dbFile)
	require.NoError(t, err)
	require.NoError(t, st.CreateSchema())
	require.NoError(t, st.RecordActivation(&store.Activation{
		RunID: "r", Action: "activate", Cursor: "busy", ExePath: `C:\notepad.exe`,
		OccurredAt: time.Now().Add(-10 * time.Minute),
	}))
	require.NoError(t, st.Close())

	var buf bytes.Buffer
	require.NoError(t, printStatus(&buf, pidFile, dbFile, platformtest.New()))

	out := buf.String()
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "PID "+strconv.Itoa(os.Getpid()))
	assert.Contains(t, out, `busy activated for C:\notepad.exe (10 minutes ago)`)
}

func TestPrintStatus_BadConfig(t *testing.T) {
	useConfig(t, "[settings]\npoll_interval = \"-1ms\"\n")
	dir := t.TempDir()

	var buf bytes.Buffer
	require.NoError(t, printStatus(&buf, filepath.Join(dir, "x.pid"), filepath.Join(dir, "x.db"), platformtest.New()))
	assert.Contains(t, buf.String(), "poll_interval must be positive")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{time.Second, "just now"},
		{30 * time.Second, "30 seconds ago"},
		{5 * time.Minute, "5 minutes ago"},
		{3 * time.Hour, "3 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{10 * 24 * time.Hour, "10 days ago"},
		{45 * 24 * time.Hour, "1 month ago"},
		{400 * 24 * time.Hour, "1 year ago"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatDuration(tt.d); got != tt.want {
				t.Errorf("formatDuration(%s) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
