package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cursorswap/internal/changer"
	"github.com/blackwell-systems/cursorswap/internal/registry"
)

var matchCmd = &cobra.Command{
	Use:   "match <exe-path>",
	Short: "Show which cursor an executable would get",
	Long: `Run the matcher against an executable path exactly as the poll loop would.

Applications are tried in the order they are declared and the first one
whose path is a suffix of the executable path wins. Matching is case
sensitive and compares the path text as-is.`,
	Example: `  cursorswap match "C:\Windows\System32\notepad.exe"`,
	Args:    cobra.ExactArgs(1),
	RunE:    runMatch,
}

func init() {
	RootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := registry.Build(cfg.Cursors, cfg.Applications, registry.ValidateOnly)
	if err != nil {
		return err
	}
	defer reg.Close()

	out := cmd.OutOrStdout()
	exePath := args[0]

	apps := reg.Applications()
	idx, ok := changer.Match(exePath, apps)
	if !ok {
		fmt.Fprintf(out, "No application matches %s\n", exePath)
		fmt.Fprintln(out, "The default cursors would be shown.")
		return nil
	}

	c, _ := reg.Cursor(apps[idx].CursorID)
	fmt.Fprintf(out, "Application #%d (%s) matches %s\n", idx+1, apps[idx].Path, exePath)
	fmt.Fprintf(out, "Cursor: %s (%s)\n", c.Name, c.Path)
	return nil
}
