package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cursorswap/internal/platform"
	"github.com/blackwell-systems/cursorswap/internal/store"
	"github.com/blackwell-systems/cursorswap/internal/watcher"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check daemon status and the last cursor change",
	Long: `Display the current status of cursorswap.

Shows:
  • Daemon running status and PID
  • Configuration file in use and what it declares
  • Whether system cursors can be changed on this platform
  • The most recent cursor change, when history is enabled`,
	Example: `  # Check status
  cursorswap status`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	// Register with root command
	RootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	pidFile, err := getDefaultPIDFile()
	if err != nil {
		return fmt.Errorf("failed to get PID file path: %w", err)
	}

	dbPath, err := getDBPath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}

	return printStatus(cmd.OutOrStdout(), pidFile, dbPath, platform.Native())
}

func printStatus(out io.Writer, pidFile, dbPath string, plat platform.Platform) error {
	const label = "%-14s"

	// Check daemon status
	daemonRunning, err := watcher.IsDaemonRunning(pidFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	fmt.Fprintln(out)

	if daemonRunning {
		fmt.Fprintf(out, label+"running (since %s, PID %d)\n", "Daemon:", daemonSince(pidFile), daemonPID(pidFile))
	} else {
		fmt.Fprintf(out, label+"stopped  (run 'cursorswap run --daemon')\n", "Daemon:")
	}

	if ok, reason := plat.Available(); ok {
		fmt.Fprintf(out, label+"system cursors can be changed\n", "Platform:")
	} else {
		fmt.Fprintf(out, label+"unsupported (%s)\n", "Platform:", reason)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(out, label+"%v\n", "Config:", err)
	} else {
		fmt.Fprintf(out, label+"%s · %d cursors · %d applications\n", "Config:",
			cfg.File, len(cfg.Cursors), len(cfg.Applications))
		history := "off"
		if cfg.Settings.History {
			history = "on"
		}
		fmt.Fprintf(out, label+"poll every %s · history %s\n", "Settings:", cfg.Settings.PollInterval, history)
	}

	fmt.Fprintf(out, label+"%s\n", "Last change:", lastChange(dbPath))

	fmt.Fprintln(out)
	return nil
}

// lastChange describes the most recent history row, or why there is none.
func lastChange(dbPath string) string {
	if _, err := os.Stat(dbPath); err != nil {
		return "no history recorded (enable with 'cursorswap run --history')"
	}

	st, err := store.New(dbPath)
	if err != nil {
		return fmt.Sprintf("cannot open history: %v", err)
	}
	defer st.Close()

	last, err := st.LastActivation()
	if errors.Is(err, store.ErrNotInitialized) {
		return "no history recorded (enable with 'cursorswap run --history')"
	}
	if err != nil {
		return fmt.Sprintf("cannot read history: %v", err)
	}
	if last == nil {
		return "none yet"
	}

	when := formatDuration(time.Since(last.OccurredAt))
	switch last.Action {
	case "activate":
		return fmt.Sprintf("%s activated for %s (%s)", last.Cursor, last.ExePath, when)
	case "shutdown":
		return fmt.Sprintf("defaults restored on shutdown (%s)", when)
	default:
		return fmt.Sprintf("defaults restored (%s)", when)
	}
}

// daemonPID reads the PID out of pidFile, or 0 when it cannot.
func daemonPID(pidFile string) int {
	pidData, err := os.ReadFile(pidFile)
	if err != nil {
		return 0
	}
	pid, _ := strconv.Atoi(strings.TrimSpace(string(pidData)))
	return pid
}

// daemonSince returns a human-readable duration since the daemon started
// (using PID file mtime as a proxy).
func daemonSince(pidFile string) string {
	fi, err := os.Stat(pidFile)
	if err != nil {
		return "unknown"
	}
	return formatDuration(time.Since(fi.ModTime()))
}

// formatDuration formats a duration in human-readable form
func formatDuration(d time.Duration) string {
	if d < 5*time.Second {
		return "just now"
	}
	if d < time.Minute {
		secs := int(d.Seconds())
		if secs == 1 {
			return "1 second ago"
		}
		return fmt.Sprintf("%d seconds ago", secs)
	}
	if d < time.Hour {
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	}
	days := int(d.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	if days < 30 {
		return fmt.Sprintf("%d days ago", days)
	}
	if days < 60 {
		return "1 month ago"
	}
	months := days / 30
	if months < 12 {
		return fmt.Sprintf("%d months ago", months)
	}
	years := months / 12
	if years == 1 {
		return "1 year ago"
	}
	return fmt.Sprintf("%d years ago", years)
}
