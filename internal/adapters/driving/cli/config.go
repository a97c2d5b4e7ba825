package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage extraction settings",
	Long: `View and change the settings stored in config.toml.

Keys use dotted names such as participant.name, email.signature_trim or
pipeline.technical.min_matches. List values are comma separated.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Show default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		d := backend.Settings().GetDefaults()
		printSettings(cmd.OutOrStdout(), &d)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that settings and patterns are usable",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configDefaultsCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	settings, err := backend.Settings().Get()
	if err != nil {
		return eris.Wrap(err, "loading settings")
	}
	printSettings(cmd.OutOrStdout(), settings)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if err := backend.Settings().Set(key, value); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", key)

	// Catch a bad pattern or policy at the moment it is stored.
	if err := backend.Settings().Validate(); err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Warning: %v\n", err)
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	if err := backend.Settings().Validate(); err != nil {
		return eris.Wrap(err, "invalid settings")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Settings are valid.")
	return nil
}

// printSettings writes settings grouped by section.
func printSettings(w io.Writer, s *domain.Settings) {
	section := func(name string) { fmt.Fprintf(w, "\n%s\n", name) }
	field := func(name string, value any) { fmt.Fprintf(w, "  %-18s %v\n", name+":", value) }
	list := func(values []string) string {
		if len(values) == 0 {
			return "(none)"
		}
		return strings.Join(values, ", ")
	}

	fmt.Fprintln(w, "Settings")

	section("Participant")
	field("name", s.Participant.Name)
	field("aliases", list(s.Participant.Aliases))

	section("Email")
	field("quote_marker", s.Email.Noise.QuoteMarker)
	field("exact_lines", list(s.Email.Noise.ExactLines))
	field("substrings", list(s.Email.Noise.Substrings))
	field("header_patterns", list(s.Email.Noise.HeaderPatterns))
	field("signature_trim", s.Email.SignatureTrim)
	field("nested_quotes", s.Email.NestedQuotes)
	field("paragraph_breaks", s.Email.ParagraphBreaks)

	section("Forum")
	field("quote_class", s.Forum.QuoteClass)
	field("drop_classes", list(s.Forum.DropClasses))
	field("drop_elements", list(s.Forum.DropElements))
	field("exact_lines", list(s.Forum.Noise.ExactLines))
	field("substrings", list(s.Forum.Noise.Substrings))
	field("unicode_whitelist", list(s.Forum.UnicodeWhitelist))
	field("edit_pattern", s.Forum.EditPattern)

	section("Pipeline")
	field("processors", list(s.Pipeline.Processors))
	names := make([]string, 0, len(s.Pipeline.ProcessorConfigs))
	for name := range s.Pipeline.ProcessorConfigs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cfg := s.Pipeline.ProcessorConfigs[name]
		keys := make([]string, 0, len(cfg))
		for k := range cfg {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			field(name+"."+k, cfg[k])
		}
	}

	section("Inputs")
	field("posts", s.Inputs.Posts)
	field("emails", s.Inputs.Emails)
	field("overrides", s.Inputs.Overrides)

	section("Output")
	field("json", orNone(s.Output.JSON))
	db := s.Output.Database
	switch db {
	case "":
		db = "(default)"
	case domain.OutputDisabled:
		db = "(disabled)"
	}
	field("database", db)

	section("Extract")
	field("workers", s.Workers)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
