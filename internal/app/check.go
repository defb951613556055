package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/cursorswap/internal/config"
	"github.com/blackwell-systems/cursorswap/internal/log"
	"github.com/blackwell-systems/cursorswap/internal/output"
	"github.com/blackwell-systems/cursorswap/internal/registry"
)

var (
	checkWatch  bool
	checkOutput string

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration without touching the system cursors",
		Long: `Load the configuration and run every check 'cursorswap run' performs
before it starts: duplicate cursor names, missing cursor files and
applications that reference undeclared cursors. Cursor images are not
loaded and the system cursors are left alone, so check works on any OS.

With --watch the configuration is validated again every time it is saved.`,
		Example: `  # Validate ./cursor.toml
  cursorswap check

  # Machine-readable report
  cursorswap check --output yaml

  # Re-validate on every save
  cursorswap check --watch`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}
)

func init() {
	checkCmd.Flags().BoolVar(&checkWatch, "watch", false, "re-validate whenever the configuration file changes")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "table", "output format: table or yaml")

	RootCmd.AddCommand(checkCmd)
}

// checkReport is the --output yaml form of a check.
type checkReport struct {
	File         string                   `yaml:"file"`
	Valid        bool                     `yaml:"valid"`
	Error        string                   `yaml:"error,omitempty"`
	Settings     config.Settings          `yaml:"settings"`
	Cursors      []config.CursorSpec      `yaml:"cursors"`
	Applications []config.ApplicationSpec `yaml:"applications"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkOutput != "table" && checkOutput != "yaml" {
		return fmt.Errorf("invalid --output %q: must be table or yaml", checkOutput)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	checkErr := checkConfig(out, cfg, checkOutput)
	if !checkWatch {
		return checkErr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()
	return watchCheck(ctx, out, cfg.File, checkOutput)
}

// watchCheck re-runs the check every time file changes. Failures are
// reported and watching continues.
func watchCheck(ctx context.Context, out io.Writer, file, format string) error {
	fmt.Fprintf(out, "\nWatching %s for changes (Ctrl+C to stop)...\n", file)

	return config.Watch(ctx, file, func() {
		fmt.Fprintln(out)
		cfg, err := config.Load(config.NewViper(), file)
		if err != nil {
			fmt.Fprintf(out, "✗ %v\n", err)
			return
		}
		if err := checkConfig(out, cfg, format); err != nil {
			log.Debug(log.CatConfig, "Configuration invalid", "err", err)
		}
	})
}

// checkConfig validates cfg by building a registry that loads nothing and
// reports the result to out in the given format.
func checkConfig(out io.Writer, cfg *config.Config, format string) error {
	reg, buildErr := registry.Build(cfg.Cursors, cfg.Applications, registry.ValidateOnly)
	if reg != nil {
		defer reg.Close()
	}

	if format == "yaml" {
		report := checkReport{
			File:         cfg.File,
			Valid:        buildErr == nil,
			Settings:     cfg.Settings,
			Cursors:      cfg.Cursors,
			Applications: cfg.Applications,
		}
		if buildErr != nil {
			report.Error = buildErr.Error()
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return buildErr
	}

	if buildErr != nil {
		fmt.Fprintf(out, "✗ %s is invalid\n  %v\n", cfg.File, buildErr)
		return buildErr
	}

	fmt.Fprintf(out, "✓ %s is valid: %d cursors, %d applications\n\n",
		cfg.File, len(reg.Cursors()), len(reg.Applications()))
	fmt.Fprint(out, output.RenderCursorTable(reg.Cursors()))
	fmt.Fprintln(out)
	fmt.Fprint(out, output.RenderApplicationTable(reg))
	fmt.Fprintf(out, "\nPoll interval %s, path cache %s, history %v\n",
		cfg.Settings.PollInterval, cfg.Settings.PathCacheTTL, cfg.Settings.History)
	return nil
}
