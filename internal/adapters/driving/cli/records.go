package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/qapairs/internal/adapters/driven/output/jsonfile"
	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driving"
)

// previewWidth bounds the question preview in listings.
const previewWidth = 60

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Query the records of the latest extraction",
	Long: `Lists, shows and searches the records stored by the most recent
extraction in the record database.`,
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List records",
	Args:  cobra.NoArgs,
	RunE:  runRecordsList,
}

var recordsGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one record",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsGet,
}

var recordsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search question and answer text",
	Long:  `Returns records whose question or answer contains the query, ignoring case.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordsSearch,
}

// isTerminal reports whether w is an interactive terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func init() {
	recordsCmd.PersistentFlags().String("db", "", "record database file")

	recordsListCmd.Flags().IntP("limit", "n", 0, "maximum number of records (0 = all)")
	recordsListCmd.Flags().Bool("json", false, "output records as JSON")
	recordsSearchCmd.Flags().IntP("limit", "n", 10, "maximum number of records")
	recordsSearchCmd.Flags().Bool("json", false, "output records as JSON")

	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsGetCmd)
	recordsCmd.AddCommand(recordsSearchCmd)
	rootCmd.AddCommand(recordsCmd)
}

// openRecords opens the record service selected by --db or the settings.
func openRecords(cmd *cobra.Command) (driving.RecordService, func() error, error) {
	path, _ := cmd.Flags().GetString("db")
	if !cmd.Flags().Changed("db") {
		settings, err := backend.Settings().Get()
		if err != nil {
			return nil, nil, eris.Wrap(err, "loading settings")
		}
		path = settings.Output.Database
	}
	return backend.Records(path)
}

func runRecordsList(cmd *cobra.Command, _ []string) error {
	svc, release, err := openRecords(cmd)
	if err != nil {
		return err
	}
	defer release() //nolint:errcheck

	recs, err := svc.List(cmd.Context())
	if err != nil {
		return eris.Wrap(err, "listing records")
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return outputRecords(cmd, recs)
}

func runRecordsSearch(cmd *cobra.Command, args []string) error {
	svc, release, err := openRecords(cmd)
	if err != nil {
		return err
	}
	defer release() //nolint:errcheck

	limit, _ := cmd.Flags().GetInt("limit")
	recs, err := svc.Search(cmd.Context(), args[0], limit)
	if err != nil {
		return eris.Wrap(err, "searching records")
	}
	return outputRecords(cmd, recs)
}

func runRecordsGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return eris.Wrapf(domain.ErrInvalidInput, "record id must be a number: %q", args[0])
	}

	svc, release, err := openRecords(cmd)
	if err != nil {
		return err
	}
	defer release() //nolint:errcheck

	rec, err := svc.Get(cmd.Context(), id)
	if err != nil {
		return eris.Wrapf(err, "getting record %d", id)
	}

	printRecord(cmd.OutOrStdout(), rec)
	return nil
}

// outputRecords writes records as JSON, a styled list or a plain table.
func outputRecords(cmd *cobra.Command, recs []domain.QARecord) error {
	w := cmd.OutOrStdout()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := jsonfile.Encode(recs)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	if len(recs) == 0 {
		fmt.Fprintln(w, "No records found.")
		return nil
	}

	if isTerminal(w) {
		formatRecordsStyled(w, recs, styles.DefaultStyles())
		return nil
	}
	formatRecordsTable(w, recs)
	return nil
}

// formatRecordsTable writes a tab-aligned table.
func formatRecordsTable(w io.Writer, recs []domain.QARecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tSOURCE\tQUESTION")
	for i := range recs {
		r := &recs[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.FormattedDate(), r.Classification, r.Source, preview(r.Question, previewWidth))
	}
	tw.Flush() //nolint:errcheck
	fmt.Fprintf(w, "\nTotal: %d records\n", len(recs))
}

// formatRecordsStyled writes a coloured listing for terminals.
func formatRecordsStyled(w io.Writer, recs []domain.QARecord, s *styles.Styles) {
	for i := range recs {
		r := &recs[i]
		header := s.Title.Render(fmt.Sprintf("#%d", r.ID)) + " " +
			s.Muted.Render(r.FormattedDate()+"  "+r.Source)
		if r.Classification != "" {
			header += " " + s.Tag.Render("["+r.Classification+"]")
		}
		fmt.Fprintln(w, header)
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			s.Question.Render("  Q "), s.Normal.Render(preview(r.Question, previewWidth))))
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			s.Answer.Render("  A "), s.Normal.Render(preview(r.Answer, previewWidth))))
	}
	fmt.Fprintln(w, s.Muted.Render(fmt.Sprintf("%d records", len(recs))))
}

// printRecord writes one record in full.
func printRecord(w io.Writer, r *domain.QARecord) {
	fmt.Fprintf(w, "Record %d\n\n", r.ID)
	fmt.Fprintf(w, "  Date:    %s\n", r.FormattedDate())
	fmt.Fprintf(w, "  Source:  %s\n", r.Source)
	if r.Classification != "" {
		fmt.Fprintf(w, "  Type:    %s\n", r.Classification)
	}
	fmt.Fprintf(w, "  Length:  %d (question %d, answer %d)\n", r.TotalLength, r.QuestionLength, r.AnswerLength)
	fmt.Fprintf(w, "\nQuestion:\n%s\n\nAnswer:\n%s\n", r.Question, r.Answer)
}

// preview flattens whitespace and cuts s to width runes.
func preview(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
