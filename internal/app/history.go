package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cursorswap/internal/output"
	"github.com/blackwell-systems/cursorswap/internal/store"
)

var (
	historyLimit int
	historyUsage bool
	historySince time.Duration
	historyPrune time.Duration

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show recent cursor changes",
		Long: `List the cursor changes recorded while cursorswap ran with history
enabled (settings.history = true or 'cursorswap run --history').

Each row is one of:
  • activate: an application's cursor was applied
  • restore:  the pointer left monitored applications
  • shutdown: cursorswap exited and restored the defaults`,
		Example: `  # Last 20 changes
  cursorswap history

  # Which cursors were used most this week
  cursorswap history --usage --since 168h

  # Drop events older than 90 days
  cursorswap history --prune 2160h`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of events to show")
	historyCmd.Flags().BoolVar(&historyUsage, "usage", false, "summarise activations per cursor instead of listing events")
	historyCmd.Flags().DurationVar(&historySince, "since", 30*24*time.Hour, "time window for --usage")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete events older than this duration")

	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyLimit <= 0 {
		return fmt.Errorf("invalid --limit %d: must be positive", historyLimit)
	}
	if historySince <= 0 {
		return fmt.Errorf("invalid --since %s: must be positive", historySince)
	}
	if historyPrune < 0 {
		return fmt.Errorf("invalid --prune %s: must not be negative", historyPrune)
	}

	path, err := getDBPath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return store.ErrNotInitialized
	}

	st, err := store.New(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	return showHistory(cmd.OutOrStdout(), st, time.Now())
}

func showHistory(out io.Writer, st *store.Store, now time.Time) error {
	if historyPrune > 0 {
		n, err := st.PruneBefore(now.Add(-historyPrune))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Pruned %d events older than %s\n\n", n, historyPrune)
	}

	if historyUsage {
		usage, err := st.CursorUsageSince(now.Add(-historySince))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Cursor activations in the last %s\n\n", historySince)
		fmt.Fprint(out, output.RenderUsageTable(usage))
		return nil
	}

	acts, err := st.RecentActivations(historyLimit)
	if err != nil {
		return err
	}
	fmt.Fprint(out, output.RenderActivationTable(acts))
	return nil
}
