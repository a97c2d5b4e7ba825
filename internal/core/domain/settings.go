package domain

const unknownDescription = "Unknown"

// SignatureTrim controls how an email signature block is removed.
type SignatureTrim string

// Available signature trim strategies.
const (
	// SignatureTrimNone keeps everything.
	SignatureTrimNone SignatureTrim = "none"

	// SignatureTrimRule cuts the body at the signature rule.
	SignatureTrimRule SignatureTrim = "rule"

	// SignatureTrimRuleAndName also drops the name line above the rule.
	SignatureTrimRuleAndName SignatureTrim = "rule_and_name"
)

// IsValid returns true if the strategy is recognised.
func (s SignatureTrim) IsValid() bool {
	switch s {
	case SignatureTrimNone, SignatureTrimRule, SignatureTrimRuleAndName:
		return true
	default:
		return false
	}
}

// Description returns a human-readable description of the strategy.
func (s SignatureTrim) Description() string {
	switch s {
	case SignatureTrimNone:
		return "Keep signature blocks"
	case SignatureTrimRule:
		return "Cut at the signature rule"
	case SignatureTrimRuleAndName:
		return "Cut at the signature rule and drop the sender name"
	default:
		return unknownDescription
	}
}

// NestedQuotes controls lines quoted more than one level deep.
type NestedQuotes string

// Available nested quote policies.
const (
	// NestedQuotesCollapse treats every quote depth as a single quoted level.
	NestedQuotesCollapse NestedQuotes = "collapse"

	// NestedQuotesDrop discards lines quoted more than one level deep.
	NestedQuotesDrop NestedQuotes = "drop"
)

// IsValid returns true if the policy is recognised.
func (n NestedQuotes) IsValid() bool {
	return n == NestedQuotesCollapse || n == NestedQuotesDrop
}

// ParagraphBreaks controls where an email run gets blank-line paragraph breaks.
type ParagraphBreaks string

// Available paragraph break heuristics.
const (
	// ParagraphBreaksBlankQuote breaks only on an empty quoted line.
	ParagraphBreaksBlankQuote ParagraphBreaks = "blank_quote"

	// ParagraphBreaksSentence also breaks after a line ending with a full stop.
	ParagraphBreaksSentence ParagraphBreaks = "sentence"
)

// IsValid returns true if the heuristic is recognised.
func (p ParagraphBreaks) IsValid() bool {
	return p == ParagraphBreaksBlankQuote || p == ParagraphBreaksSentence
}

// NoiseRules is the per-convention vocabulary of the line classifier.
type NoiseRules struct {
	// QuoteMarker prefixes quoted lines. Empty means the convention has no
	// line-level quoting.
	QuoteMarker string

	// ExactLines are dropped when a line equals one of them.
	ExactLines []string

	// Substrings are dropped when a line contains one of them.
	Substrings []string

	// HeaderPatterns are regular expressions for header or label lines.
	HeaderPatterns []string
}

// EmailRules configures the email segmenter.
type EmailRules struct {
	Noise NoiseRules

	// SignatureRule is the full line that opens a list footer.
	SignatureRule string

	SignatureTrim   SignatureTrim
	NestedQuotes    NestedQuotes
	ParagraphBreaks ParagraphBreaks
}

// ForumRules configures the markup segmenter.
type ForumRules struct {
	Noise NoiseRules

	// QuoteClass is the CSS class of quote blocks.
	QuoteClass string

	// DropClasses are CSS classes whose elements are removed with their content.
	DropClasses []string

	// DropElements are tag names removed with their content.
	DropElements []string

	// UnicodeWhitelist holds the four-digit hex codes of literal "\uXXXX"
	// escapes that are decoded. Every other escape is deleted.
	UnicodeWhitelist []string

	// EditPattern matches edit markers that are stripped from the text.
	EditPattern string

	// RepostPrefix starts the body of a post that reposts someone else's message.
	RepostPrefix string
}

// ParticipantSettings identifies the tracked participant.
type ParticipantSettings struct {
	// Name is matched against email senders.
	Name string

	// Aliases are extra sender names treated as the participant.
	Aliases []string
}

// Matches reports whether a sender is the participant.
func (p ParticipantSettings) Matches(sender string) bool {
	if sender == "" {
		return false
	}
	if sender == p.Name {
		return true
	}
	for _, alias := range p.Aliases {
		if sender == alias {
			return true
		}
	}
	return false
}

// InputSettings locates the fixture files.
type InputSettings struct {
	Posts     string
	Emails    string
	Overrides string
}

// OutputDisabled turns off the record database when used as its path.
const OutputDisabled = "-"

// OutputSettings locates the output sinks. An empty JSON path disables
// the JSON file; an empty Database path selects the default store and
// OutputDisabled turns it off.
type OutputSettings struct {
	JSON     string
	Database string
}

// Settings is the complete extraction configuration.
type Settings struct {
	Participant ParticipantSettings
	Email       EmailRules
	Forum       ForumRules
	Pipeline    PipelineConfig
	Inputs      InputSettings
	Output      OutputSettings

	// Workers bounds how many messages are assembled in parallel.
	Workers int
}

// DefaultSettings returns the rule set used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Participant: ParticipantSettings{
			Name: "Satoshi Nakamoto",
		},
		Email: EmailRules{
			Noise: NoiseRules{
				QuoteMarker: ">",
				ExactLines:  []string{"Satoshi Nakamoto", "Satoshi", "http://www.bitcoin.org"},
				Substrings:  []string{"From:", " wrote:", " writes:", "-------------"},
				HeaderPatterns: []string{
					`^[A-Z][A-Za-z. ]+:$`,
				},
			},
			SignatureRule:   "---------------------------------------------------------------------",
			SignatureTrim:   SignatureTrimRuleAndName,
			NestedQuotes:    NestedQuotesCollapse,
			ParagraphBreaks: ParagraphBreaksBlankQuote,
		},
		Forum: ForumRules{
			Noise: NoiseRules{
				ExactLines: []string{"Satoshi Nakamoto", "Satoshi", "http://www.bitcoin.org"},
				Substrings: []string{"Greetings,", "foobar", "Posted:", "Re: ", "Regards,", "-------------"},
				HeaderPatterns: []string{
					`(?i)^[a-z-]+:$`,
				},
			},
			QuoteClass:       "quote",
			DropClasses:      []string{"quoteheader", "codeheader"},
			DropElements:     []string{"img", "del", "script", "style"},
			UnicodeWhitelist: []string{"0e3f", "00e9", "00e0", "00e8", "00e7"},
			EditPattern:      `(?i)\bedit: ?|\[edit\]|/edit`,
			RepostPrefix:     `<div class="post">--------------------<br/>`,
		},
		Pipeline: DefaultPipelineConfig(),
		Inputs: InputSettings{
			Posts:     "inputs/posts.json",
			Emails:    "inputs/emails.json",
			Overrides: "inputs/overrides.json",
		},
		Output: OutputSettings{
			JSON: "docs/qa.json",
		},
		Workers: 4,
	}
}

// PipelineConfig holds classification processor configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default pipeline configuration.
// Works out-of-the-box with the technical classifier using its built-in patterns.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"technical"},
		ProcessorConfigs: map[string]map[string]any{
			"technical": {
				"tag":         ClassExclude,
				"min_matches": 2,
			},
		},
	}
}
