package driven

import (
	"github.com/custodia-labs/qapairs/internal/core/domain"
)

// Segmenter splits a message body into alternating quoted and authored runs.
// Implementations are pure: the same body always yields the same runs.
type Segmenter interface {
	// Convention returns the quoting convention this segmenter handles.
	Convention() domain.Convention

	// Segment returns positional runs for body. Index 0 is the authored text
	// before the first quote and may be empty.
	Segment(body string) (domain.Runs, error)
}

// SegmenterRegistry selects the segmenter for a message convention.
type SegmenterRegistry interface {
	// Segment splits body using the segmenter registered for conv.
	Segment(conv domain.Convention, body string) (domain.Runs, error)

	// Register adds a segmenter, replacing any with the same convention.
	Register(segmenter Segmenter)

	// Conventions returns all registered conventions.
	Conventions() []domain.Convention
}
