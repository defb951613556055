package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/cursorswap/internal/config"
	"github.com/blackwell-systems/cursorswap/internal/registry"
	"github.com/blackwell-systems/cursorswap/internal/store"
)

func buildRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	dir := t.TempDir()
	busy := filepath.Join(dir, "busy.ani")
	text := filepath.Join(dir, "text.cur")
	for _, p := range []string{busy, text} {
		if err := os.WriteFile(p, nil, 0644); err != nil {
			t.Fatalf("write cursor: %v", err)
		}
	}
	reg, err := registry.Build(
		[]config.CursorSpec{{Name: "busy", Path: busy}, {Name: "text", Path: text}},
		[]config.ApplicationSpec{
			{Cursor: "text", Path: `Microsoft VS Code\Code.exe`},
			{Cursor: "busy", Path: "notepad.exe"},
		},
		registry.ValidateOnly,
	)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}

func TestRenderCursorTable(t *testing.T) {
	reg := buildRegistry(t)

	result := RenderCursorTable(reg.Cursors())
	for _, expected := range []string{"ID", "Cursor", "busy", "text", "busy.ani", "text.cur"} {
		if !strings.Contains(result, expected) {
			t.Errorf("RenderCursorTable() missing expected string %q\nGot:\n%s", expected, result)
		}
	}

	if strings.Index(result, "busy") > strings.Index(result, "text") {
		t.Errorf("RenderCursorTable() should list cursors in id order\nGot:\n%s", result)
	}

	if got := RenderCursorTable(nil); got != "No cursors declared.\n" {
		t.Errorf("RenderCursorTable(nil) = %q", got)
	}
}

func TestRenderApplicationTable(t *testing.T) {
	reg := buildRegistry(t)

	result := RenderApplicationTable(reg)
	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) != 4 {
		t.Fatalf("RenderApplicationTable() returned %d lines, want 4\nGot:\n%s", len(lines), result)
	}
	if !strings.HasPrefix(lines[2], "1") || !strings.Contains(lines[2], "Code.exe") || !strings.Contains(lines[2], "text") {
		t.Errorf("first row should be the VS Code entry, got %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "2") || !strings.Contains(lines[3], "notepad.exe") || !strings.Contains(lines[3], "busy") {
		t.Errorf("second row should be the notepad entry, got %q", lines[3])
	}
}

func TestRenderActivationTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	now := time.Now()

	tests := []struct {
		name        string
		activations []*store.Activation
		contains    []string
	}{
		{
			name:        "empty",
			activations: nil,
			contains:    []string{"No cursor changes recorded"},
		},
		{
			name: "activate and restore",
			activations: []*store.Activation{
				{Action: "restore", ExePath: `C:\Windows\explorer.exe`, OccurredAt: now.Add(-30 * time.Second)},
				{Action: "activate", Cursor: "busy", ExePath: `C:\Windows\notepad.exe`, OccurredAt: now.Add(-2 * time.Hour)},
			},
			contains: []string{"restore", "(default)", "explorer.exe", "activate", "busy", "notepad.exe", "just now", "2 hours ago"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderActivationTable(tt.activations)

			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("RenderActivationTable() missing expected string %q\nGot:\n%s", expected, result)
				}
			}
		})
	}
}

func TestRenderUsageTable(t *testing.T) {
	usage := []*store.CursorUsage{
		{Cursor: "busy", Activations: 12, LastUsed: time.Now().Add(-3 * 24 * time.Hour)},
		{Cursor: "text", Activations: 1, LastUsed: time.Now()},
	}

	result := RenderUsageTable(usage)
	for _, expected := range []string{"busy", "12", "3 days ago", "text", "just now"} {
		if !strings.Contains(result, expected) {
			t.Errorf("RenderUsageTable() missing expected string %q\nGot:\n%s", expected, result)
		}
	}

	if got := RenderUsageTable(nil); !strings.Contains(got, "No cursor activations") {
		t.Errorf("RenderUsageTable(nil) = %q", got)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	old := now.Add(-90 * 24 * time.Hour)

	tests := []struct {
		name string
		time time.Time
		want string
	}{
		{"zero time", time.Time{}, "never"},
		{"just now", now.Add(-30 * time.Second), "just now"},
		{"one minute ago", now.Add(-1 * time.Minute), "1 minute ago"},
		{"minutes ago", now.Add(-45 * time.Minute), "45 minutes ago"},
		{"one hour ago", now.Add(-1 * time.Hour), "1 hour ago"},
		{"hours ago", now.Add(-3 * time.Hour), "3 hours ago"},
		{"one day ago", now.Add(-24 * time.Hour), "1 day ago"},
		{"days ago", now.Add(-5 * 24 * time.Hour), "5 days ago"},
		{"one week ago", now.Add(-7 * 24 * time.Hour), "1 week ago"},
		{"weeks ago", now.Add(-14 * 24 * time.Hour), "2 weeks ago"},
		{"older dates", old, old.Format("2006-01-02")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatRelativeTime(tt.time)
			if got != tt.want {
				t.Errorf("formatRelativeTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionColor(t *testing.T) {
	tests := []struct {
		action string
		want   string
	}{
		{"activate", colorGreen},
		{"restore", colorYellow},
		{"shutdown", colorRed},
		{"unknown", colorGray},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			if got := actionColor(tt.action); got != tt.want {
				t.Errorf("actionColor(%q) = %q, want %q", tt.action, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"equal to max", "hello", 5, "hello"},
		{"longer than max", "hello world", 8, "hello..."},
		{"very short max", "hello", 2, "he"},
		{"max of 3", "hello", 3, "hel"},
		{"max of 4", "hello world", 4, "h..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestTruncateLeft(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than max", "notepad.exe", 20, "notepad.exe"},
		{"keeps the file name", `C:\Windows\System32\notepad.exe`, 14, `...notepad.exe`},
		{"very short max", "notepad.exe", 3, "exe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateLeft(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncateLeft(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
