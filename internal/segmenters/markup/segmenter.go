// Package markup segments forum posts written as HTML fragments whose
// quotes are nested block elements carrying a quote class.
package markup

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"

	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
	"github.com/custodia-labs/qapairs/internal/segmenters/lines"
)

// Ensure Segmenter implements the interface.
var _ driven.Segmenter = (*Segmenter)(nil)

// Sentinel delimits quote blocks in the flattened text. The HTML parser
// replaces NUL characters in text, so it cannot occur in post content.
const Sentinel = "\x00quote\x00"

var (
	spaceRuns      = regexp.MustCompile(` {2,}`)
	unicodeEscape  = regexp.MustCompile(`\\u([a-z0-9]{4})`)
	backtickQuotes = regexp.MustCompile("`(s|t|ve|d)")
)

// Segmenter splits forum HTML into positional runs.
type Segmenter struct {
	rules        domain.ForumRules
	classifier   *lines.Classifier
	dropClasses  map[string]struct{}
	dropElements map[string]struct{}
	whitelist    map[string]struct{}
	edit         *regexp.Regexp
}

// New creates a markup segmenter.
func New(rules domain.ForumRules) (*Segmenter, error) {
	if rules.QuoteClass == "" {
		return nil, eris.Wrap(domain.ErrInvalidInput, "markup: quote class is required")
	}

	classifier, err := lines.New(rules.Noise)
	if err != nil {
		return nil, err
	}

	s := &Segmenter{
		rules:        rules,
		classifier:   classifier,
		dropClasses:  toSet(rules.DropClasses),
		dropElements: toSet(rules.DropElements),
		whitelist:    toSet(rules.UnicodeWhitelist),
	}
	if rules.EditPattern != "" {
		s.edit, err = regexp.Compile(rules.EditPattern)
		if err != nil {
			return nil, eris.Wrapf(err, "markup: compile edit pattern %q", rules.EditPattern)
		}
	}
	return s, nil
}

// Convention returns the forum convention.
func (s *Segmenter) Convention() domain.Convention {
	return domain.ConventionForum
}

// Segment splits an HTML body into runs. Every quote block contributes
// exactly one quoted run, so the run count is always odd for a non-empty
// body. Quotes nested inside quotes are removed.
func (s *Segmenter) Segment(body string) (domain.Runs, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "markup: parse body")
	}

	var b strings.Builder
	s.render(doc, &b, false)

	texts := strings.Split(s.filter(s.normalise(b.String())), Sentinel)
	for i := range texts {
		texts[i] = strings.TrimSpace(texts[i])
	}
	return domain.RunsFromTexts(texts), nil
}

// render flattens the tree to text. Quote blocks are framed by
// sentinel lines.
func (s *Segmenter) render(n *html.Node, b *strings.Builder, inQuote bool) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if s.dropped(n) {
			return
		}
		if n.Data == "br" {
			b.WriteString("\n")
			return
		}
		if hasClass(n, s.rules.QuoteClass) {
			if inQuote {
				return
			}
			b.WriteString("\n" + Sentinel + "\n")
			s.renderChildren(n, b, true)
			b.WriteString("\n" + Sentinel + "\n")
			return
		}
	}
	s.renderChildren(n, b, inQuote)
}

func (s *Segmenter) renderChildren(n *html.Node, b *strings.Builder, inQuote bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s.render(c, b, inQuote)
	}
}

func (s *Segmenter) dropped(n *html.Node) bool {
	if _, ok := s.dropElements[n.Data]; ok {
		return true
	}
	for _, class := range classes(n) {
		if _, ok := s.dropClasses[class]; ok {
			return true
		}
	}
	return false
}

// normalise rewrites character-level artefacts of the forum export.
func (s *Segmenter) normalise(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = unicodeEscape.ReplaceAllStringFunc(text, s.decodeEscape)
	text = backtickQuotes.ReplaceAllString(text, "'$1")
	if s.edit != nil {
		text = s.edit.ReplaceAllString(text, "")
	}
	return text
}

func (s *Segmenter) decodeEscape(escape string) string {
	code := escape[2:]
	if _, ok := s.whitelist[code]; !ok {
		return ""
	}
	r, err := strconv.ParseUint(code, 16, 32)
	if err != nil {
		return ""
	}
	return string(rune(r))
}

// filter trims lines and removes empty and noise lines. Sentinel lines
// always survive.
func (s *Segmenter) filter(text string) string {
	rows := strings.Split(text, "\n")
	kept := rows[:0]
	for _, row := range rows {
		row = strings.TrimSpace(row)
		if row == Sentinel {
			kept = append(kept, row)
			continue
		}
		if row == "" || s.classifier.IsNoise(row) {
			continue
		}
		kept = append(kept, row)
	}
	return strings.Join(kept, "\n")
}

func classes(n *html.Node) []string {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == "class" {
			return strings.Fields(attr.Val)
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
