package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
	"github.com/custodia-labs/qapairs/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyParticipantName    = "participant.name"
	keyParticipantAliases = "participant.aliases"

	keyEmailQuoteMarker     = "email.quote_marker"
	keyEmailExactLines      = "email.exact_lines"
	keyEmailSubstrings      = "email.substrings"
	keyEmailHeaderPatterns  = "email.header_patterns"
	keyEmailSignatureRule   = "email.signature_rule"
	keyEmailSignatureTrim   = "email.signature_trim"
	keyEmailNestedQuotes    = "email.nested_quotes"
	keyEmailParagraphBreaks = "email.paragraph_breaks"

	keyForumExactLines       = "forum.exact_lines"
	keyForumSubstrings       = "forum.substrings"
	keyForumHeaderPatterns   = "forum.header_patterns"
	keyForumQuoteClass       = "forum.quote_class"
	keyForumDropClasses      = "forum.drop_classes"
	keyForumDropElements     = "forum.drop_elements"
	keyForumUnicodeWhitelist = "forum.unicode_whitelist"
	keyForumEditPattern      = "forum.edit_pattern"
	keyForumRepostPrefix     = "forum.repost_prefix"

	keyPipelineProcessors = "pipeline.processors"
	keyWorkers            = "extract.workers"

	keyInputPosts     = "inputs.posts"
	keyInputEmails    = "inputs.emails"
	keyInputOverrides = "inputs.overrides"
	keyOutputJSON     = "output.json"
	keyOutputDatabase = "output.database"
)

type valueKind int

const (
	kindString valueKind = iota
	kindList
	kindInt
)

// settableKeys lists the keys Set accepts and how string input is converted.
var settableKeys = map[string]valueKind{
	keyParticipantName:       kindString,
	keyParticipantAliases:    kindList,
	keyEmailQuoteMarker:      kindString,
	keyEmailExactLines:       kindList,
	keyEmailSubstrings:       kindList,
	keyEmailHeaderPatterns:   kindList,
	keyEmailSignatureRule:    kindString,
	keyEmailSignatureTrim:    kindString,
	keyEmailNestedQuotes:     kindString,
	keyEmailParagraphBreaks:  kindString,
	keyForumExactLines:       kindList,
	keyForumSubstrings:       kindList,
	keyForumHeaderPatterns:   kindList,
	keyForumQuoteClass:       kindString,
	keyForumDropClasses:      kindList,
	keyForumDropElements:     kindList,
	keyForumUnicodeWhitelist: kindList,
	keyForumEditPattern:      kindString,
	keyForumRepostPrefix:     kindString,
	keyPipelineProcessors:    kindList,
	keyWorkers:               kindInt,
	keyInputPosts:            kindString,
	keyInputEmails:           kindString,
	keyInputOverrides:        kindString,
	keyOutputJSON:            kindString,
	keyOutputDatabase:        kindString,
}

// processorKeys are the per-processor keys read under pipeline.<name>.
var processorKeys = []string{"tag", "min_matches", "patterns"}

// SettingsService turns stored configuration into typed settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current settings. Keys that are not set take their defaults.
// Policy values are returned as stored; Validate reports unknown ones.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := domain.DefaultSettings()

	settings := &domain.Settings{
		Participant: domain.ParticipantSettings{
			Name:    s.getString(keyParticipantName, d.Participant.Name),
			Aliases: s.getStrings(keyParticipantAliases, d.Participant.Aliases),
		},
		Email: domain.EmailRules{
			Noise: domain.NoiseRules{
				QuoteMarker:    s.getString(keyEmailQuoteMarker, d.Email.Noise.QuoteMarker),
				ExactLines:     s.getStrings(keyEmailExactLines, d.Email.Noise.ExactLines),
				Substrings:     s.getStrings(keyEmailSubstrings, d.Email.Noise.Substrings),
				HeaderPatterns: s.getStrings(keyEmailHeaderPatterns, d.Email.Noise.HeaderPatterns),
			},
			SignatureRule:   s.getString(keyEmailSignatureRule, d.Email.SignatureRule),
			SignatureTrim:   domain.SignatureTrim(s.getString(keyEmailSignatureTrim, string(d.Email.SignatureTrim))),
			NestedQuotes:    domain.NestedQuotes(s.getString(keyEmailNestedQuotes, string(d.Email.NestedQuotes))),
			ParagraphBreaks: domain.ParagraphBreaks(s.getString(keyEmailParagraphBreaks, string(d.Email.ParagraphBreaks))),
		},
		Forum: domain.ForumRules{
			Noise: domain.NoiseRules{
				QuoteMarker:    d.Forum.Noise.QuoteMarker,
				ExactLines:     s.getStrings(keyForumExactLines, d.Forum.Noise.ExactLines),
				Substrings:     s.getStrings(keyForumSubstrings, d.Forum.Noise.Substrings),
				HeaderPatterns: s.getStrings(keyForumHeaderPatterns, d.Forum.Noise.HeaderPatterns),
			},
			QuoteClass:       s.getString(keyForumQuoteClass, d.Forum.QuoteClass),
			DropClasses:      s.getStrings(keyForumDropClasses, d.Forum.DropClasses),
			DropElements:     s.getStrings(keyForumDropElements, d.Forum.DropElements),
			UnicodeWhitelist: s.getStrings(keyForumUnicodeWhitelist, d.Forum.UnicodeWhitelist),
			EditPattern:      s.getString(keyForumEditPattern, d.Forum.EditPattern),
			RepostPrefix:     s.getString(keyForumRepostPrefix, d.Forum.RepostPrefix),
		},
		Pipeline: s.GetPipelineConfig(),
		Inputs: domain.InputSettings{
			Posts:     s.getString(keyInputPosts, d.Inputs.Posts),
			Emails:    s.getString(keyInputEmails, d.Inputs.Emails),
			Overrides: s.getString(keyInputOverrides, d.Inputs.Overrides),
		},
		Output: domain.OutputSettings{
			JSON:     s.getString(keyOutputJSON, d.Output.JSON),
			Database: s.getString(keyOutputDatabase, d.Output.Database),
		},
		Workers: s.getInt(keyWorkers, d.Workers),
	}

	return settings, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Validate checks that configured policies are known and patterns compile.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Participant.Name == "" {
		return eris.Wrap(domain.ErrInvalidInput, "participant name is empty")
	}
	if !settings.Email.SignatureTrim.IsValid() {
		return eris.Wrapf(domain.ErrInvalidInput, "invalid signature trim: %s", settings.Email.SignatureTrim)
	}
	if !settings.Email.NestedQuotes.IsValid() {
		return eris.Wrapf(domain.ErrInvalidInput, "invalid nested quote policy: %s", settings.Email.NestedQuotes)
	}
	if !settings.Email.ParagraphBreaks.IsValid() {
		return eris.Wrapf(domain.ErrInvalidInput, "invalid paragraph breaks: %s", settings.Email.ParagraphBreaks)
	}
	if settings.Email.Noise.QuoteMarker == "" {
		return eris.Wrap(domain.ErrInvalidInput, "email quote marker is empty")
	}
	if settings.Forum.QuoteClass == "" {
		return eris.Wrap(domain.ErrInvalidInput, "forum quote class is empty")
	}
	if settings.Workers < 1 {
		return eris.Wrapf(domain.ErrInvalidInput, "workers must be positive: %d", settings.Workers)
	}

	patterns := make([]string, 0, len(settings.Email.Noise.HeaderPatterns)+len(settings.Forum.Noise.HeaderPatterns)+1)
	patterns = append(patterns, settings.Email.Noise.HeaderPatterns...)
	patterns = append(patterns, settings.Forum.Noise.HeaderPatterns...)
	if settings.Forum.EditPattern != "" {
		patterns = append(patterns, settings.Forum.EditPattern)
	}
	for _, pattern := range patterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return eris.Wrapf(domain.ErrInvalidInput, "invalid pattern %q: %v", pattern, err)
		}
	}

	for _, code := range settings.Forum.UnicodeWhitelist {
		if _, err := strconv.ParseUint(code, 16, 32); err != nil || len(code) != 4 {
			return eris.Wrapf(domain.ErrInvalidInput, "invalid unicode whitelist entry: %q", code)
		}
	}

	return nil
}

// Set stores a single key. String values for list keys are split on
// commas and string values for numeric keys are parsed.
func (s *SettingsService) Set(key string, value any) error {
	kind, known := settableKeys[key]
	if !known && !isProcessorKey(key) {
		return eris.Wrapf(domain.ErrInvalidInput, "unknown setting: %s", key)
	}

	if str, ok := value.(string); ok {
		switch {
		case known && kind == kindList:
			value = splitList(str)
		case known && kind == kindInt:
			n, err := strconv.Atoi(str)
			if err != nil {
				return eris.Wrapf(domain.ErrInvalidInput, "%s must be a number: %q", key, str)
			}
			value = n
		case !known:
			if n, err := strconv.Atoi(str); err == nil {
				value = n
			}
		}
	}

	if err := s.configStore.Set(key, value); err != nil {
		return eris.Wrapf(err, "save %s", key)
	}
	return nil
}

// GetPipelineConfig returns the classification processor configuration.
// Returns default configuration if nothing is configured.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	defaults := domain.DefaultPipelineConfig()

	if _, exists := s.configStore.Get(keyPipelineProcessors); exists {
		defaults.Processors = s.configStore.GetStringSlice(keyPipelineProcessors)
	}

	for _, name := range defaults.Processors {
		cfg := s.loadProcessorConfig("pipeline." + name + ".")
		if len(cfg) == 0 {
			continue
		}
		if defaults.ProcessorConfigs == nil {
			defaults.ProcessorConfigs = make(map[string]map[string]any)
		}
		// Merge with existing defaults
		existing := defaults.ProcessorConfigs[name]
		if existing == nil {
			existing = make(map[string]any)
		}
		for k, v := range cfg {
			existing[k] = v
		}
		defaults.ProcessorConfigs[name] = existing
	}

	return defaults
}

// loadProcessorConfig loads config keys with a given prefix into a map.
func (s *SettingsService) loadProcessorConfig(prefix string) map[string]any {
	cfg := make(map[string]any)
	for _, key := range processorKeys {
		if val, exists := s.configStore.Get(prefix + key); exists {
			cfg[key] = val
		}
	}
	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getStrings returns the stored list when the key exists, even if empty,
// so a configured empty list clears the default.
func (s *SettingsService) getStrings(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetStringSlice(key)
	if val == nil {
		return []string{}
	}
	return val
}

func isProcessorKey(key string) bool {
	rest, ok := strings.CutPrefix(key, "pipeline.")
	if !ok {
		return false
	}
	for _, k := range processorKeys {
		if strings.HasSuffix(rest, "."+k) && len(rest) > len(k)+1 {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
