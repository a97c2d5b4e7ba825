package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse records in an interactive terminal UI",
	Long: `Opens the records of the latest extraction in a terminal UI.

Controls:
  ↑/k, ↓/j - Navigate records
  /        - Filter by text
  Enter    - Open record / Apply filter
  n, p     - Next / previous record
  Esc      - Back / Clear filter
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().String("db", "", "record database file")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = eris.Errorf("TUI panic: %v", r)
		}
	}()

	svc, release, err := openRecords(cmd)
	if err != nil {
		return err
	}
	defer release() //nolint:errcheck

	app, err := tui.NewApp(tui.NewPorts(svc))
	if err != nil {
		return eris.Wrap(err, "failed to create TUI")
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return eris.Wrap(err, "TUI error")
	}
	return nil
}
