package domain

import "time"

// Classification tags attached to records.
const (
	// ClassExclude marks a pair that should be left out of curated output.
	ClassExclude = "exclude"

	// ClassFavorite marks a pair chosen for highlighting.
	ClassFavorite = "favorite"
)

// QAPair is a question/answer pair produced by the Pair Assembler.
// It has not yet been ordered or numbered.
type QAPair struct {
	// Convention is the corpus the pair came from.
	Convention Convention

	// RawDate is the message timestamp as found in the fixture.
	RawDate string

	// Date is RawDate normalised to UTC. Zero until normalised.
	Date time.Time

	// URL is the source locator of the answering message.
	URL string

	// Question is the quoted (or implied) text being answered.
	Question string

	// Answer is the tracked participant's reply.
	Answer string

	// Classification is an optional tag such as ClassExclude.
	Classification string
}

// QARecord is one finished output record.
// Records are created once by the pipeline and never modified.
type QARecord struct {
	ID             int       `json:"id"`
	Date           time.Time `json:"date"`
	Source         string    `json:"src"`
	Question       string    `json:"q"`
	Answer         string    `json:"a"`
	QuestionLength int       `json:"qlen"`
	AnswerLength   int       `json:"alen"`
	TotalLength    int       `json:"len"`
	Classification string    `json:"type,omitempty"`
}

// DateLayout is the canonical textual form of a record timestamp.
const DateLayout = "2006-01-02 15:04:05"

// FormattedDate returns the record date in DateLayout.
func (r *QARecord) FormattedDate() string {
	return r.Date.UTC().Format(DateLayout)
}

// ExtractionStats summarises one pipeline run.
type ExtractionStats struct {
	Messages         int
	Tracked          int
	SkippedNoBody    int
	SkippedMalformed int
	OrphansDropped   int
	OverridesApplied int
	Pairs            int
	BadTimestamps    int
}

// Extraction is the result of one pipeline run.
type Extraction struct {
	// RunID identifies the run when records are persisted.
	RunID string

	// CreatedAt is when the run finished.
	CreatedAt time.Time

	// Records are ordered by date with dense IDs from 1.
	Records []QARecord

	// Stats counts what happened along the way.
	Stats ExtractionStats
}
