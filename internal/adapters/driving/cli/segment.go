package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

var (
	segmentConvention string
	segmentJSON       bool
)

var segmentCmd = &cobra.Command{
	Use:   "segment [file]",
	Short: "Split one message body into authored and quoted runs",
	Long: `Segments a single message body read from file, or from stdin when no
file is given, using the configured rules for the chosen convention.

Conventions:
  email  - plain text with ">" quote markers
  forum  - HTML posts with quote blocks`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSegment,
}

func init() {
	segmentCmd.Flags().StringVarP(&segmentConvention, "convention", "c", string(domain.ConventionEmail),
		"quoting convention (email, forum)")
	segmentCmd.Flags().BoolVar(&segmentJSON, "json", false, "output runs as JSON")
	rootCmd.AddCommand(segmentCmd)
}

// segmentRun is the JSON form of one run.
type segmentRun struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

func runSegment(cmd *cobra.Command, args []string) error {
	var (
		body []byte
		err  error
	)
	if len(args) == 1 {
		body, err = os.ReadFile(args[0])
	} else {
		body, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return eris.Wrap(err, "reading message")
	}

	settings, err := backend.Settings().Get()
	if err != nil {
		return eris.Wrap(err, "loading settings")
	}

	svc, release, err := backend.Extraction(settings, false)
	if err != nil {
		return err
	}
	defer release() //nolint:errcheck

	runs, err := svc.SegmentBody(domain.Convention(segmentConvention), string(body))
	if err != nil {
		return eris.Wrap(err, "segmentation failed")
	}

	w := cmd.OutOrStdout()
	if segmentJSON {
		out := make([]segmentRun, len(runs))
		for i, r := range runs {
			out[i] = segmentRun{Tag: r.Tag.String(), Text: r.Text}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return eris.Wrap(err, "encoding runs")
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs.")
		return nil
	}
	for i, r := range runs {
		fmt.Fprintf(w, "[%d] %s\n", i, r.Tag)
		if r.Text != "" {
			fmt.Fprintln(w, r.Text)
		}
		fmt.Fprintln(w)
	}
	return nil
}
