package cli

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/qapairs/internal/adapters/driving/watch"
	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-extract whenever the inputs change",
	Long: `Runs an extraction, then watches the posts, emails and override files and
runs again once a burst of changes has settled. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addExtractFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", watch.DefaultQuiet, "quiet period before re-extracting")
	watchCmd.Flags().Duration("min-interval", watch.DefaultMinInterval, "minimum time between extractions")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	svc, release, err := backend.Extraction(settings, true)
	if err != nil {
		return err
	}
	defer release() //nolint:errcheck

	out := cmd.OutOrStdout()
	report := func(e *domain.Extraction, err error) {
		if err != nil {
			return
		}
		printExtraction(out, e, settings.Output)
	}

	report(svc.Extract(cmd.Context()))

	debounce, _ := cmd.Flags().GetDuration("debounce")
	minInterval, _ := cmd.Flags().GetDuration("min-interval")
	w := watch.New(svc,
		[]string{settings.Inputs.Posts, settings.Inputs.Emails, settings.Inputs.Overrides},
		watch.WithQuiet(debounce),
		watch.WithMinInterval(minInterval),
		watch.WithResultFunc(report),
	)

	logger.Info("watching %d locations", len(w.Targets()))
	if err := w.Run(cmd.Context()); err != nil {
		return eris.Wrap(err, "watch failed")
	}
	return nil
}
