package watcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/cursorswap/internal/changer"
	"github.com/blackwell-systems/cursorswap/internal/config"
	"github.com/blackwell-systems/cursorswap/internal/platform/platformtest"
	"github.com/blackwell-systems/cursorswap/internal/registry"
	"github.com/blackwell-systems/cursorswap/internal/store"
)

// setupTestStore creates an in-memory SQLite store for tests and registers
// cleanup with t.Cleanup so callers don't need explicit defer.
func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("setupTestStore: open: %v", err)
	}
	if err := st.CreateSchema(); err != nil {
		st.Close()
		t.Fatalf("setupTestStore: schema: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// setupTestState builds the busy/text registry used by the scenario tests
// on top of fake.
func setupTestState(t *testing.T, fake *platformtest.Fake) *changer.State {
	t.Helper()
	dir := t.TempDir()
	var cursors []config.CursorSpec
	for _, name := range []string{"busy.ani", "text.cur"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, nil, 0644); err != nil {
			t.Fatalf("setupTestState: %v", err)
		}
		cursors = append(cursors, config.CursorSpec{Name: name[:len(name)-4], Path: p})
	}

	reg, err := registry.Build(cursors, []config.ApplicationSpec{
		{Cursor: "busy", Path: "notepad.exe"},
	}, fake)
	if err != nil {
		t.Fatalf("setupTestState: build registry: %v", err)
	}
	t.Cleanup(func() { reg.Close() })
	return changer.New(reg, fake)
}
