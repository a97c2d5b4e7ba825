// Package cli provides the qapairs command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qapairs/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "qapairs",
	Short: "Extract question/answer pairs from forum posts and emails",
	Long: `qapairs reads forum posts and mailing list emails, separates the text a
participant wrote from the text they quoted, and pairs every reply with the
question it answers.

Records are written as a JSON array and to a SQLite database that the
records, browse and mcp commands read from.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetOutput(cmd.ErrOrStderr())
		logger.SetVerbose(verbose)
		return initBackend()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.qapairs)")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
