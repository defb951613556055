package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cursorswap/internal/platform"
	"github.com/blackwell-systems/cursorswap/internal/registry"
	"github.com/blackwell-systems/cursorswap/internal/store"
	"github.com/blackwell-systems/cursorswap/internal/watcher"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose common issues and check system health",
	Long: `Runs diagnostic checks on your cursorswap setup.

Checks:
  • System cursors can be changed on this platform
  • Configuration loads and every cursor image can be loaded
  • The process under the pointer can be resolved
  • History database is accessible (when history is enabled)
  • Daemon is running

Critical issues make doctor exit non-zero; warnings do not.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	return doctor(cmd.OutOrStdout(), platform.Native())
}

func doctor(out io.Writer, plat platform.Platform) error {
	fmt.Fprintln(out, "Running cursorswap diagnostics...")
	fmt.Fprintln(out)

	criticalIssues := 0
	warningIssues := 0

	// Check 1: platform support
	available, reason := plat.Available()
	if available {
		fmt.Fprintln(out, "✓ System cursors can be changed")
	} else {
		fmt.Fprintln(out, "✗ System cursors cannot be changed:", reason)
		fmt.Fprintln(out, "  Action: Run cursorswap on Windows; 'cursorswap check' works everywhere")
		criticalIssues++
	}

	// Check 2: configuration
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(out, "✗ Configuration:", err)
		criticalIssues++
	} else {
		fmt.Fprintln(out, "✓ Configuration loaded:", cfg.File)

		// Check 3: cursor images. Loading them for real catches files that
		// exist but are not cursors.
		var loader platform.CursorLoader = registry.ValidateOnly
		if available {
			loader = plat
		}
		reg, err := registry.Build(cfg.Cursors, cfg.Applications, loader)
		if err != nil {
			fmt.Fprintln(out, "✗ Registry:", err)
			fmt.Fprintln(out, "  Action: Run 'cursorswap check' for details")
			criticalIssues++
		} else {
			fmt.Fprintf(out, "✓ %d cursors and %d applications registered\n",
				len(reg.Cursors()), len(reg.Applications()))
			if len(reg.Applications()) == 0 {
				fmt.Fprintln(out, "⚠ No applications monitored, the cursor will never change")
				warningIssues++
			}
			reg.Close()
		}

		// Check 4: history database
		if cfg.Settings.History {
			warningIssues += checkHistory(out)
		}
	}

	// Check 5: pointer resolution
	if available {
		obs, err := watcher.NewResolver(plat, 0).Resolve()
		switch {
		case err != nil:
			fmt.Fprintln(out, "⚠ Cannot resolve the process under the pointer:", err)
			fmt.Fprintln(out, "  Elevated windows cannot be inspected from a normal process")
			warningIssues++
		case !obs.Found:
			fmt.Fprintln(out, "⚠ No window under the pointer")
			warningIssues++
		default:
			fmt.Fprintln(out, "✓ Process under the pointer:", obs.ExePath)
		}
	}

	// Check 6: daemon, warning only
	warningIssues += checkDaemon(out)

	fmt.Fprintln(out)
	if criticalIssues == 0 && warningIssues == 0 {
		fmt.Fprintln(out, "✓ All checks passed!")
		return nil
	}

	if criticalIssues > 0 {
		fmt.Fprintf(out, "Found %d critical issue(s) and %d warning(s).\n", criticalIssues, warningIssues)
		return fmt.Errorf("diagnostics failed")
	}

	fmt.Fprintf(out, "Found %d warning(s). cursorswap is functional.\n", warningIssues)
	return nil
}

func checkHistory(out io.Writer) int {
	path, err := getDBPath()
	if err != nil {
		fmt.Fprintln(out, "⚠ History database path error:", err)
		return 1
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(out, "✓ History enabled, database will be created at:", path)
		return 0
	}

	st, err := store.New(path)
	if err != nil {
		fmt.Fprintln(out, "⚠ Cannot open history database:", err)
		return 1
	}
	defer st.Close()

	if _, err := st.LastActivation(); err != nil && !errors.Is(err, store.ErrNotInitialized) {
		fmt.Fprintln(out, "⚠ Cannot read history:", err)
		return 1
	}
	fmt.Fprintln(out, "✓ History database is accessible:", path)
	return 0
}

func checkDaemon(out io.Writer) int {
	pidFile, err := getDefaultPIDFile()
	if err != nil {
		fmt.Fprintln(out, "⚠ Failed to get PID file path:", err)
		return 1
	}

	running, err := watcher.IsDaemonRunning(pidFile)
	if err != nil {
		fmt.Fprintln(out, "⚠ Failed to check daemon status:", err)
		return 1
	}
	if !running {
		fmt.Fprintln(out, "⚠ Daemon not running")
		fmt.Fprintln(out, "  Action: Run 'cursorswap run --daemon'")
		return 1
	}

	fmt.Fprintf(out, "✓ Daemon running (PID %d)\n", daemonPID(pidFile))
	return 0
}
