// Package output provides terminal output utilities for cursorswap.
//
// This package includes:
//   - Table rendering functions for cursors, applications and activation history
//   - Spinners for daemon start and stop
//   - Human-readable formatting for dates and paths
//
// All table rendering functions use ASCII characters and ANSI color codes for terminal output.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/cursorswap/internal/registry"
	"github.com/blackwell-systems/cursorswap/internal/store"
)

// ANSI color codes for activation display
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderCursorTable renders the declared cursors in id order.
func RenderCursorTable(cursors []*registry.Cursor) string {
	if len(cursors) == 0 {
		return "No cursors declared.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-4s %-16s %s\n", "ID", "Cursor", "File"))
	sb.WriteString(strings.Repeat("─", 70))
	sb.WriteString("\n")

	for _, c := range cursors {
		sb.WriteString(fmt.Sprintf("%-4d %-16s %s\n",
			c.ID,
			truncate(c.Name, 16),
			truncateLeft(c.Path, 48)))
	}

	return sb.String()
}

// RenderApplicationTable renders the monitored applications in match order.
// The first column is the position the matcher tries the entry at.
func RenderApplicationTable(reg *registry.Registry) string {
	apps := reg.Applications()
	if len(apps) == 0 {
		return "No applications monitored.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-4s %-16s %s\n", "#", "Cursor", "Path suffix"))
	sb.WriteString(strings.Repeat("─", 70))
	sb.WriteString("\n")

	for i, app := range apps {
		name := "?"
		if c, ok := reg.Cursor(app.CursorID); ok {
			name = c.Name
		}
		sb.WriteString(fmt.Sprintf("%-4d %-16s %s\n",
			i+1,
			truncate(name, 16),
			truncateLeft(app.Path, 48)))
	}

	return sb.String()
}

// RenderActivationTable renders history rows as given, newest first being
// the order the store returns them in.
func RenderActivationTable(activations []*store.Activation) string {
	if len(activations) == 0 {
		return "No cursor changes recorded.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-15s %-9s %-16s %s\n",
		"When", "Action", "Cursor", "Executable"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, a := range activations {
		cursor := a.Cursor
		if cursor == "" {
			cursor = "(default)"
		}
		// Pad before colorizing so escape codes don't break alignment.
		action := colorize(actionColor(a.Action), fmt.Sprintf("%-9s", a.Action))

		sb.WriteString(fmt.Sprintf("%-15s %s %-16s %s\n",
			formatRelativeTime(a.OccurredAt),
			action,
			truncate(cursor, 16),
			truncateLeft(a.ExePath, 36)))
	}

	return sb.String()
}

// RenderUsageTable renders per-cursor activation counts. Rows are expected
// pre-sorted by the store.
func RenderUsageTable(usage []*store.CursorUsage) string {
	if len(usage) == 0 {
		return "No cursor activations in this period.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-16s %-11s %s\n", "Cursor", "Activations", "Last Used"))
	sb.WriteString(strings.Repeat("─", 50))
	sb.WriteString("\n")

	for _, u := range usage {
		sb.WriteString(fmt.Sprintf("%-16s %-11d %s\n",
			truncate(u.Cursor, 16),
			u.Activations,
			formatRelativeTime(u.LastUsed)))
	}

	return sb.String()
}

// actionColor returns the ANSI color code for a history action.
func actionColor(action string) string {
	switch action {
	case "activate":
		return colorGreen
	case "restore":
		return colorYellow
	case "shutdown":
		return colorRed
	default:
		return colorGray
	}
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	case diff < 30*24*time.Hour:
		weeks := int(diff.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	default:
		return t.Format("2006-01-02")
	}
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// truncateLeft keeps the end of s, which for paths is the part that matters.
func truncateLeft(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[len(s)-maxLen:]
	}
	return "..." + s[len(s)-maxLen+3:]
}
