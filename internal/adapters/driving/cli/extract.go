package cli

import (
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract question/answer records",
	Long: `Loads the forum posts and emails, pairs every reply of the tracked
participant with the question it answers and writes the numbered records.

Input and output paths default to the configuration and can be overridden
for a single run with flags. Use --no-db to skip the record database.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	addExtractFlags(extractCmd)
	rootCmd.AddCommand(extractCmd)
}

// addExtractFlags registers the flags shared by extract and watch.
func addExtractFlags(cmd *cobra.Command) {
	cmd.Flags().String("posts", "", "forum posts JSON file")
	cmd.Flags().String("emails", "", "emails JSON file or directory of .eml files")
	cmd.Flags().String("overrides", "", "override table (JSON or YAML)")
	cmd.Flags().String("json", "", "JSON output file")
	cmd.Flags().String("db", "", "record database file")
	cmd.Flags().Bool("no-db", false, "do not write the record database")
	cmd.Flags().Int("workers", 0, "messages processed in parallel")
}

// resolveSettings loads settings and applies the flags set on cmd.
func resolveSettings(cmd *cobra.Command) (*domain.Settings, error) {
	settings, err := backend.Settings().Get()
	if err != nil {
		return nil, eris.Wrap(err, "loading settings")
	}

	flags := cmd.Flags()
	override := func(name string, target *string) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*target, _ = flags.GetString(name)
		}
	}
	override("posts", &settings.Inputs.Posts)
	override("emails", &settings.Inputs.Emails)
	override("overrides", &settings.Inputs.Overrides)
	override("json", &settings.Output.JSON)
	override("db", &settings.Output.Database)

	if flags.Lookup("no-db") != nil {
		if noDB, _ := flags.GetBool("no-db"); noDB {
			settings.Output.Database = domain.OutputDisabled
		}
	}
	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		settings.Workers, _ = flags.GetInt("workers")
	}
	return settings, nil
}

func runExtract(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	svc, release, err := backend.Extraction(settings, true)
	if err != nil {
		return err
	}
	defer release() //nolint:errcheck

	extraction, err := svc.Extract(cmd.Context())
	if err != nil {
		return eris.Wrap(err, "extraction failed")
	}

	printExtraction(cmd.OutOrStdout(), extraction, settings.Output)
	return nil
}

// printExtraction writes the run summary.
func printExtraction(w io.Writer, e *domain.Extraction, out domain.OutputSettings) {
	s := e.Stats
	fmt.Fprintf(w, "Extraction %s\n\n", e.RunID)
	fmt.Fprintf(w, "  Messages:          %d (%d by the participant)\n", s.Messages, s.Tracked)
	fmt.Fprintf(w, "  Skipped:           %d without body, %d malformed\n", s.SkippedNoBody, s.SkippedMalformed)
	fmt.Fprintf(w, "  Orphans dropped:   %d\n", s.OrphansDropped)
	fmt.Fprintf(w, "  Overrides applied: %d\n", s.OverridesApplied)
	fmt.Fprintf(w, "  Bad timestamps:    %d\n", s.BadTimestamps)
	fmt.Fprintf(w, "  Records:           %d\n", len(e.Records))

	if out.JSON != "" {
		fmt.Fprintf(w, "\nWrote %s\n", out.JSON)
	}
	switch out.Database {
	case domain.OutputDisabled:
	case "":
		fmt.Fprintln(w, "Stored in the default record database")
	default:
		fmt.Fprintf(w, "Stored in %s\n", out.Database)
	}
}
