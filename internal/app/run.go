package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cursorswap/internal/changer"
	"github.com/blackwell-systems/cursorswap/internal/config"
	"github.com/blackwell-systems/cursorswap/internal/log"
	"github.com/blackwell-systems/cursorswap/internal/output"
	"github.com/blackwell-systems/cursorswap/internal/platform"
	"github.com/blackwell-systems/cursorswap/internal/registry"
	"github.com/blackwell-systems/cursorswap/internal/store"
	"github.com/blackwell-systems/cursorswap/internal/watcher"
)

var (
	runDaemon      bool
	runDaemonChild bool
	runPIDFile     string
	runLogFile     string
	runStop        bool

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Swap cursors until the window is closed",
		Long: `Load the configuration, build the cursor registry and start swapping the
system cursor whenever the pointer moves over a monitored application.

A small host window is shown while cursorswap runs. Closing it, pressing
Ctrl+C or sending SIGTERM stops the poll loop, and the default cursor scheme
is restored before the process exits.

Run modes:
  • Foreground (default): Run in current terminal with Ctrl+C to stop
  • Daemon: Run as background process
  • Stop: Stop a running daemon

With history enabled every cursor change is written to the history
database and can be listed with 'cursorswap history'.`,
		Example: `  # Run in foreground
  cursorswap run

  # Run as background daemon with history
  cursorswap run --daemon --history

  # Stop running daemon
  cursorswap run --stop

  # Sample the pointer every 5ms
  cursorswap run --poll-interval 5ms`,
		Args: cobra.NoArgs,
		RunE: runRun,
	}
)

func init() {
	runCmd.Flags().BoolVar(&runDaemon, "daemon", false, "run as background daemon")
	runCmd.Flags().BoolVar(&runDaemonChild, "daemon-child", false, "internal flag for daemon child process")
	runCmd.Flags().StringVar(&runPIDFile, "pid-file", "", "PID file path (default: ~/.config/cursorswap/cursorswap.pid)")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "log file path (default: ~/.config/cursorswap/cursorswap.log)")
	runCmd.Flags().BoolVar(&runStop, "stop", false, "stop running daemon")
	runCmd.Flags().Bool("history", false, "record cursor changes in the history database")
	runCmd.Flags().Duration("poll-interval", 0, "pause between pointer samples (default 1ms)")

	v.BindPFlag("settings.history", runCmd.Flags().Lookup("history"))
	v.BindPFlag("settings.poll_interval", runCmd.Flags().Lookup("poll-interval"))

	// Hide the internal daemon-child flag from help
	runCmd.Flags().MarkHidden("daemon-child")

	RootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	// Get default paths if not specified
	if runPIDFile == "" {
		defaultPID, err := getDefaultPIDFile()
		if err != nil {
			return fmt.Errorf("failed to get default PID file path: %w", err)
		}
		runPIDFile = defaultPID
	}

	if runLogFile == "" {
		defaultLog, err := getDefaultLogFile()
		if err != nil {
			return fmt.Errorf("failed to get default log file path: %w", err)
		}
		runLogFile = defaultLog
	}

	// Handle stop command
	if runStop {
		return stopRunDaemon()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runDaemon {
		return startRunDaemon(cfg)
	}

	return runSession(cmd.Context(), cfg, platform.Native())
}

// runSession builds the registry on plat, runs the watcher until the host
// window closes or a termination signal arrives, and releases every cursor
// handle afterwards.
func runSession(ctx context.Context, cfg *config.Config, plat platform.Platform) error {
	if ok, reason := plat.Available(); !ok {
		return fmt.Errorf("%w: %s", platform.ErrUnsupported, reason)
	}

	reg, err := registry.Build(cfg.Cursors, cfg.Applications, plat)
	if err != nil {
		return err
	}
	defer func() {
		if err := reg.Close(); err != nil {
			log.ErrorErr(log.CatRegistry, "Failed to release cursors", err)
		}
	}()

	opts := []watcher.Option{watcher.WithInterval(cfg.Settings.PollInterval)}
	if cfg.Settings.History {
		st, err := openHistory()
		if err != nil {
			return err
		}
		defer st.Close()

		runID := uuid.NewString()
		opts = append(opts, watcher.WithRecorder(st, runID))
		log.Info(log.CatDB, "Recording cursor history", "run_id", runID)
	}

	w, err := watcher.New(changer.New(reg, plat), watcher.NewResolver(plat, cfg.Settings.PathCacheTTL), opts...)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Handle daemon child process
	if runDaemonChild {
		// This runs as the daemon child process
		// It should not print to stdout as it's redirected to the log file
		return w.RunDaemon(ctx, plat, runPIDFile)
	}

	return runForeground(ctx, w, plat)
}

func runForeground(ctx context.Context, w *watcher.Watcher, ui platform.UI) error {
	fmt.Println("Swapping cursors (close the window or press Ctrl+C to stop)...")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	start := time.Now()
	if err := w.Run(ctx, ui); err != nil {
		return err
	}

	ticks, changes := w.Stats()
	fmt.Printf("\nDefault cursors restored after %s (%d samples, %d cursor changes)\n",
		time.Since(start).Round(time.Second), ticks, changes)
	return nil
}

func openHistory() (*store.Store, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get database path: %w", err)
	}

	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create schema if needed
	if err := st.CreateSchema(); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create database schema: %w", err)
	}
	return st, nil
}

func stopRunDaemon() error {
	// Check if daemon is running
	running, err := watcher.IsDaemonRunning(runPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running {
		fmt.Println("Daemon is not running")
		return nil
	}

	spinner := output.NewSpinner("Stopping daemon")
	spinner.Start()
	if err := watcher.StopDaemon(runPIDFile); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to stop daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Daemon stopped, default cursors restored")

	return nil
}

// startRunDaemon validates the configuration before spawning the child, so
// integrity errors reach the terminal rather than the daemon log.
func startRunDaemon(cfg *config.Config) error {
	reg, err := registry.Build(cfg.Cursors, cfg.Applications, registry.ValidateOnly)
	if err != nil {
		return err
	}
	reg.Close()

	if ok, reason := platform.Native().Available(); !ok {
		return fmt.Errorf("%w: %s", platform.ErrUnsupported, reason)
	}

	// The child rereads the same file, so pass it explicitly.
	childArgs := []string{"run", "--daemon-child", "--config", cfg.File, "--pid-file", runPIDFile}
	if dbPath != "" {
		childArgs = append(childArgs, "--db", dbPath)
	}
	if cfg.Settings.History {
		childArgs = append(childArgs, "--history")
	}
	childArgs = append(childArgs, "--poll-interval", cfg.Settings.PollInterval.String())

	spinner := output.NewSpinner("Starting daemon")
	spinner.Start()
	if err := watcher.StartDaemon(runPIDFile, runLogFile, childArgs); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Daemon started")

	fmt.Printf("\nCursor swapping daemon started\n")
	fmt.Printf("  PID file: %s\n", runPIDFile)
	fmt.Printf("  Log file: %s\n", runLogFile)
	fmt.Printf("\nTo stop: cursorswap run --stop\n")

	return nil
}
