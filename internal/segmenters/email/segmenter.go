// Package email segments plain-text email bodies that quote with a
// line prefix such as "> ".
package email

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
	"github.com/custodia-labs/qapairs/internal/segmenters/lines"
)

// Ensure Segmenter implements the interface.
var _ driven.Segmenter = (*Segmenter)(nil)

var (
	newlineIndent = regexp.MustCompile(`\n +`)
	spaceRuns     = regexp.MustCompile(`  +`)
)

const paragraphBreak = "\n\n"

// Segmenter splits email bodies into positional runs.
type Segmenter struct {
	rules      domain.EmailRules
	classifier *lines.Classifier
}

// New creates an email segmenter.
func New(rules domain.EmailRules) (*Segmenter, error) {
	if !rules.SignatureTrim.IsValid() {
		return nil, eris.Wrapf(domain.ErrInvalidInput, "email: signature trim %q", rules.SignatureTrim)
	}
	if !rules.NestedQuotes.IsValid() {
		return nil, eris.Wrapf(domain.ErrInvalidInput, "email: nested quotes %q", rules.NestedQuotes)
	}
	if !rules.ParagraphBreaks.IsValid() {
		return nil, eris.Wrapf(domain.ErrInvalidInput, "email: paragraph breaks %q", rules.ParagraphBreaks)
	}
	if rules.Noise.QuoteMarker == "" {
		return nil, eris.Wrap(domain.ErrInvalidInput, "email: quote marker is required")
	}

	classifier, err := lines.New(rules.Noise)
	if err != nil {
		return nil, err
	}
	return &Segmenter{rules: rules, classifier: classifier}, nil
}

// Convention returns the email convention.
func (s *Segmenter) Convention() domain.Convention {
	return domain.ConventionEmail
}

// Segment splits a body into runs. The first run is the authored text
// before the first quote, empty when the body opens with a quote.
// A body with nothing but noise yields no runs.
func (s *Segmenter) Segment(body string) (domain.Runs, error) {
	rows := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	for i := range rows {
		rows[i] = strings.TrimSpace(rows[i])
	}
	rows = s.trimSignature(rows)

	var (
		texts   []string
		buf     strings.Builder
		inQuote bool
	)
	for _, row := range rows {
		if row == "" {
			continue
		}
		if s.classifier.IsNoise(row) {
			continue
		}

		quoted, text, keep := s.unquote(row)
		if !keep {
			continue
		}
		if quoted != inQuote {
			texts = append(texts, buf.String())
			buf.Reset()
			inQuote = quoted
		}

		switch {
		case text == "":
			buf.WriteString(paragraphBreak)
		case s.rules.ParagraphBreaks == domain.ParagraphBreaksSentence && strings.HasSuffix(buf.String(), "."):
			buf.WriteString(paragraphBreak)
			buf.WriteString(text)
		default:
			buf.WriteString(" ")
			buf.WriteString(text)
		}
	}
	if buf.Len() > 0 {
		texts = append(texts, buf.String())
	}

	for i := range texts {
		texts[i] = clean(texts[i])
	}
	return domain.RunsFromTexts(texts), nil
}

// trimSignature cuts rows at the signature rule.
func (s *Segmenter) trimSignature(rows []string) []string {
	if s.rules.SignatureRule == "" || s.rules.SignatureTrim == domain.SignatureTrimNone {
		return rows
	}

	end := -1
	for i, row := range rows {
		if row == s.rules.SignatureRule {
			end = i
			break
		}
	}
	if end < 0 {
		return rows
	}

	if s.rules.SignatureTrim == domain.SignatureTrimRuleAndName {
		for end > 0 && rows[end-1] == "" {
			end--
		}
		if end > 0 {
			end--
		}
	}
	return rows[:end]
}

// unquote strips quote markers from a row. keep is false when the
// nested quote policy discards the row.
func (s *Segmenter) unquote(row string) (quoted bool, text string, keep bool) {
	marker := s.classifier.Marker()
	if !strings.HasPrefix(row, marker) {
		return false, row, true
	}

	depth := 0
	rest := row
	for strings.HasPrefix(rest, marker) {
		depth++
		rest = strings.TrimLeft(strings.TrimPrefix(rest, marker), " \t")
	}
	if depth > 1 && s.rules.NestedQuotes == domain.NestedQuotesDrop {
		return true, "", false
	}
	return true, rest, true
}

func clean(text string) string {
	text = newlineIndent.ReplaceAllString(text, "\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
