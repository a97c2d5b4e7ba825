package driving

import (
	"context"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

// ExtractionService runs the question/answer extraction pipeline.
type ExtractionService interface {
	// Extract loads both corpora, pairs every reply of the tracked
	// participant and returns the ordered, numbered records. Configured
	// sinks receive the result before it is returned.
	Extract(ctx context.Context) (*domain.Extraction, error)

	// SegmentBody splits a single body without thread resolution.
	SegmentBody(conv domain.Convention, body string) (domain.Runs, error)
}

// RecordService reads records of the latest persisted run.
type RecordService interface {
	// List returns all records.
	List(ctx context.Context) ([]domain.QARecord, error)

	// Get returns one record by ID.
	Get(ctx context.Context, id int) (*domain.QARecord, error)

	// Search returns records whose text contains query.
	Search(ctx context.Context, query string, limit int) ([]domain.QARecord, error)
}
