package driven

import (
	"context"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

// RecordSink receives the finished records of an extraction.
type RecordSink interface {
	// Name identifies the sink in logs.
	Name() string

	// Write persists the extraction.
	Write(ctx context.Context, extraction *domain.Extraction) error
}

// RecordStore reads persisted records back.
type RecordStore interface {
	// LatestRun returns the ID of the most recent run.
	// Returns domain.ErrNotFound when nothing has been persisted.
	LatestRun(ctx context.Context) (string, error)

	// ListRecords returns every record of a run ordered by ID.
	ListRecords(ctx context.Context, runID string) ([]domain.QARecord, error)

	// GetRecord returns one record of a run.
	// Returns domain.ErrNotFound when the ID does not exist.
	GetRecord(ctx context.Context, runID string, id int) (*domain.QARecord, error)

	// SearchRecords returns records whose question or answer contains query,
	// ordered by ID and capped at limit.
	SearchRecords(ctx context.Context, runID, query string, limit int) ([]domain.QARecord, error)
}
