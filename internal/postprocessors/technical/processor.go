// Package technical provides a keyword classifier that tags pairs about
// building, platform support and other implementation chatter.
package technical

import (
	"context"
	"regexp"

	"github.com/rotisserie/eris"

	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
)

// Name is the registry name of the processor.
const Name = "technical"

// DefaultMinMatches is how many distinct patterns must match by default.
const DefaultMinMatches = 2

// DefaultPatterns match build, platform and tooling vocabulary.
var DefaultPatterns = []string{
	`(?i)\bcompil(e|es|ed|ing|er)\b`,
	`(?i)\blinux\b`,
	`(?i)\bwindows\b`,
	`(?i)\bmac ?os ?x?\b`,
	`(?i)\bmakefile\b`,
	`(?i)\bwxwidgets\b`,
	`(?i)\bboost\b`,
	`(?i)\bmingw\b`,
	`(?i)\bgcc\b`,
	`(?i)\bubuntu\b`,
	`(?i)\bdebug(ging)?\b`,
	`(?i)\bbuild(s|ing)?\b`,
	`(?i)\bpatch(es|ed)?\b`,
	`(?i)\bsvn\b`,
	`(?i)\b(json-)?rpc\b`,
	`(?i)\bbitcoind\b`,
	`(?i)\bsourceforge\b`,
	`(?i)\bgetwork\b`,
	`(?i)\.(cpp|h)\b`,
}

// Ensure Processor implements the interface.
var _ driven.PairProcessor = (*Processor)(nil)

// Processor tags pairs whose combined text matches at least minMatches
// distinct patterns. Pairs that already carry a tag are left alone.
type Processor struct {
	tag        string
	minMatches int
	sources    []string
	patterns   []*regexp.Regexp
}

// Option configures the processor.
type Option func(*Processor)

// WithTag sets the classification applied to matching pairs.
func WithTag(tag string) Option {
	return func(p *Processor) {
		if tag != "" {
			p.tag = tag
		}
	}
}

// WithMinMatches sets how many distinct patterns must match.
func WithMinMatches(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.minMatches = n
		}
	}
}

// WithPatterns replaces the built-in patterns.
func WithPatterns(patterns ...string) Option {
	return func(p *Processor) {
		if len(patterns) > 0 {
			p.sources = patterns
		}
	}
}

// New creates a technical classifier with the given options.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		tag:        domain.ClassExclude,
		minMatches: DefaultMinMatches,
		sources:    DefaultPatterns,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.patterns = make([]*regexp.Regexp, 0, len(p.sources))
	for _, src := range p.sources {
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, eris.Wrapf(err, "technical: compile pattern %q", src)
		}
		p.patterns = append(p.patterns, re)
	}
	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process tags matching pairs. The input slice is not modified.
func (p *Processor) Process(ctx context.Context, pairs []domain.QAPair) ([]domain.QAPair, error) {
	out := make([]domain.QAPair, len(pairs))
	copy(out, pairs)

	for i := range out {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if out[i].Classification != "" {
			continue
		}
		if p.Matches(out[i].Question + "\n" + out[i].Answer) {
			out[i].Classification = p.tag
		}
	}
	return out, nil
}

// Matches reports whether text matches at least minMatches patterns.
func (p *Processor) Matches(text string) bool {
	hits := 0
	for _, re := range p.patterns {
		if re.MatchString(text) {
			hits++
			if hits >= p.minMatches {
				return true
			}
		}
	}
	return false
}
