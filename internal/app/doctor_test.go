package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/blackwell-systems/cursorswap/internal/platform/platformtest"
)

// TestDoctor_WarningOnlyReturnsNil verifies that warnings alone (daemon not
// running) do not fail the command.
func TestDoctor_WarningOnlyReturnsNil(t *testing.T) {
	path := useConfig(t, sampleConfig)
	writeCursorFiles(t, path, "busy.ani", "text.cur")

	var buf bytes.Buffer
	fake := platformtest.New(platformtest.Under(`C:\Windows\notepad.exe`))
	if err := doctor(&buf, fake); err != nil {
		t.Errorf("expected doctor to return nil for warnings-only, got: %v\n%s", err, buf.String())
	}

	out := buf.String()
	for _, want := range []string{
		"✓ System cursors can be changed",
		"✓ 2 cursors and 2 applications registered",
		`✓ Process under the pointer: C:\Windows\notepad.exe`,
		"⚠ Daemon not running",
		"Found 1 warning(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if len(fake.Loaded()) != 0 {
		t.Errorf("doctor leaked %d cursor handles", len(fake.Loaded()))
	}
}

// TestDoctor_AllChecksPass runs with a live daemon PID so no warnings remain.
func TestDoctor_AllChecksPass(t *testing.T) {
	path := useConfig(t, sampleConfig)
	writeCursorFiles(t, path, "busy.ani", "text.cur")

	pidFile, err := getDefaultPIDFile()
	if err != nil {
		t.Fatalf("getDefaultPIDFile: %v", err)
	}
	if err := os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())+"\n"), 0644); err != nil {
		t.Fatalf("write PID file: %v", err)
	}

	var buf bytes.Buffer
	if err := doctor(&buf, platformtest.New(platformtest.Under("notepad.exe"))); err != nil {
		t.Fatalf("doctor() error = %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "All checks passed") {
		t.Errorf("expected all checks to pass, got:\n%s", buf.String())
	}
}

// TestDoctor_CriticalIssueReturnsError verifies that a broken configuration
// makes doctor return an error so main exits 1.
func TestDoctor_CriticalIssueReturnsError(t *testing.T) {
	useConfig(t, sampleConfig) // cursor files missing

	var buf bytes.Buffer
	err := doctor(&buf, platformtest.New())
	if err == nil {
		t.Fatal("expected doctor to return non-nil error for critical issues")
	}
	if !strings.Contains(err.Error(), "diagnostics failed") {
		t.Errorf("expected error to contain 'diagnostics failed', got: %v", err)
	}
	if !strings.Contains(buf.String(), "✗ Registry:") {
		t.Errorf("expected registry failure in output, got:\n%s", buf.String())
	}
}

func TestDoctor_HistoryCheck(t *testing.T) {
	path := useConfig(t, strings.Replace(sampleConfig, `poll_interval = "1ms"`, "poll_interval = \"1ms\"\nhistory = true", 1))
	writeCursorFiles(t, path, "busy.ani", "text.cur")

	oldDBPath := dbPath
	dbPath = filepath.Join(t.TempDir(), "history.db")
	defer func() { dbPath = oldDBPath }()

	var buf bytes.Buffer
	if err := doctor(&buf, platformtest.New()); err != nil {
		t.Fatalf("doctor() error = %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "database will be created at") {
		t.Errorf("expected history note, got:\n%s", buf.String())
	}
}
