package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cursorswap/internal/config"
)

var (
	initForce bool

	initCmd = &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter configuration file",
		Long: `Write a commented cursor.toml with one cursor and one application.

Without a path the file goes to the cursorswap config directory
(~/.config/cursorswap/cursor.toml, or $XDG_CONFIG_HOME/cursorswap). An
existing file is never replaced unless --force is given.`,
		Example: `  cursorswap init
  cursorswap init ./cursor.toml --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")

	RootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		dir, err := config.Dir()
		if err != nil {
			return fmt.Errorf("failed to get config directory: %w", err)
		}
		path = filepath.Join(dir, config.FileName)
	}

	if err := config.WriteTemplate(path, initForce); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Wrote %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Put your .cur/.ani files next to it and declare them as [[cursor]] tables")
	fmt.Fprintln(out, "  2. Map executables to them with [[application]] tables")
	fmt.Fprintln(out, "  3. Run 'cursorswap check', then 'cursorswap run'")
	return nil
}
