// Package lines classifies single lines of message text as quoted,
// boilerplate noise or authored content.
package lines

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

// Class is the result of classifying a line.
type Class int

const (
	// Content is text written by the sender.
	Content Class = iota

	// Quoted is a line carrying the convention's quote marker.
	Quoted

	// Noise is boilerplate: signatures, attributions, headers, UI chrome.
	Noise
)

// String returns the string representation.
func (c Class) String() string {
	switch c {
	case Content:
		return "content"
	case Quoted:
		return "quoted"
	case Noise:
		return "noise"
	default:
		return "unknown"
	}
}

// Classifier applies one convention's noise vocabulary.
// It holds no state beyond its compiled rules and is safe for concurrent use.
type Classifier struct {
	marker     string
	exact      map[string]struct{}
	substrings []string
	headers    []*regexp.Regexp
}

// New compiles a classifier from noise rules.
func New(rules domain.NoiseRules) (*Classifier, error) {
	c := &Classifier{
		marker:     rules.QuoteMarker,
		exact:      make(map[string]struct{}, len(rules.ExactLines)),
		substrings: append([]string(nil), rules.Substrings...),
	}
	for _, line := range rules.ExactLines {
		c.exact[line] = struct{}{}
	}
	for _, pattern := range rules.HeaderPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, eris.Wrapf(err, "lines: compile header pattern %q", pattern)
		}
		c.headers = append(c.headers, re)
	}
	return c, nil
}

// Classify returns the class of a single trimmed line.
// Noise wins over quoting: an attribution line is dropped even when quoted.
// An empty line is Content with no text; callers decide what blank lines mean.
func (c *Classifier) Classify(line string) Class {
	if c.IsNoise(line) {
		return Noise
	}
	if c.marker != "" && strings.HasPrefix(line, c.marker) {
		return Quoted
	}
	return Content
}

// IsNoise reports whether a line matches the noise vocabulary.
func (c *Classifier) IsNoise(line string) bool {
	if line == "" {
		return false
	}
	if _, ok := c.exact[line]; ok {
		return true
	}
	for _, s := range c.substrings {
		if strings.Contains(line, s) {
			return true
		}
	}
	for _, re := range c.headers {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// Marker returns the quote marker, empty when the convention has none.
func (c *Classifier) Marker() string {
	return c.marker
}
