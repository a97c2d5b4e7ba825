package domain

import "fmt"

// RunTag marks whether a text run was quoted or written by the sender.
type RunTag int

const (
	// Authored is text written by the message sender.
	Authored RunTag = iota

	// Quoted is text the sender quoted from an earlier message.
	Quoted
)

// String returns the string representation.
func (t RunTag) String() string {
	switch t {
	case Authored:
		return "authored"
	case Quoted:
		return "quoted"
	default:
		return fmt.Sprintf("RunTag(%d)", int(t))
	}
}

// Other returns the opposite tag.
func (t RunTag) Other() RunTag {
	if t == Quoted {
		return Authored
	}
	return Quoted
}

// TextRun is one contiguous span of a segmented message.
type TextRun struct {
	Tag  RunTag
	Text string
}

// Runs is the ordered output of a segmenter.
//
// Segmenters emit positional runs: index 0 is always the authored text that
// precedes the first quote, and may be empty when the message opens with a
// quote. Tags then alternate, so even indexes are authored and odd indexes
// are quoted.
type Runs []TextRun

// RunsFromTexts builds positional runs from plain strings, tagging by parity.
func RunsFromTexts(texts []string) Runs {
	runs := make(Runs, len(texts))
	for i, text := range texts {
		tag := Authored
		if i%2 == 1 {
			tag = Quoted
		}
		runs[i] = TextRun{Tag: tag, Text: text}
	}
	return runs
}

// Texts returns the run texts in order.
func (r Runs) Texts() []string {
	texts := make([]string, len(r))
	for i := range r {
		texts[i] = r[i].Text
	}
	return texts
}

// Leading returns the authored run before the first quote and whether
// the list has one.
func (r Runs) Leading() (TextRun, bool) {
	if len(r) == 0 || r[0].Tag != Authored {
		return TextRun{}, false
	}
	return r[0], true
}

// Last returns the final run, or an empty authored run for an empty list.
func (r Runs) Last() TextRun {
	if len(r) == 0 {
		return TextRun{}
	}
	return r[len(r)-1]
}

// Validate checks that no two adjacent runs share a tag.
func (r Runs) Validate() error {
	for i := 1; i < len(r); i++ {
		if r[i].Tag == r[i-1].Tag {
			return fmt.Errorf("%w: runs %d and %d are both %s", ErrMalformedSegmentation, i-1, i, r[i].Tag)
		}
	}
	return nil
}

// ValidateFrom checks alternation and that the first run carries the given tag.
func (r Runs) ValidateFrom(first RunTag) error {
	if len(r) > 0 && r[0].Tag != first {
		return fmt.Errorf("%w: first run is %s, want %s", ErrMalformedSegmentation, r[0].Tag, first)
	}
	return r.Validate()
}
