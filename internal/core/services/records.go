package services

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
	"github.com/custodia-labs/qapairs/internal/core/ports/driving"
)

// Ensure RecordService implements the interface.
var _ driving.RecordService = (*RecordService)(nil)

// DefaultSearchLimit caps search results when no limit is given.
const DefaultSearchLimit = 20

// RecordService reads records of the most recent persisted run.
type RecordService struct {
	store driven.RecordStore
}

// NewRecordService creates a new record service.
func NewRecordService(store driven.RecordStore) *RecordService {
	return &RecordService{store: store}
}

// List returns all records of the latest run ordered by ID.
func (s *RecordService) List(ctx context.Context) ([]domain.QARecord, error) {
	runID, err := s.store.LatestRun(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "latest run")
	}
	records, err := s.store.ListRecords(ctx, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "list records of run %s", runID)
	}
	return records, nil
}

// Get returns one record of the latest run.
func (s *RecordService) Get(ctx context.Context, id int) (*domain.QARecord, error) {
	if id < 1 {
		return nil, eris.Wrapf(domain.ErrInvalidInput, "record id must be positive: %d", id)
	}
	runID, err := s.store.LatestRun(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "latest run")
	}
	record, err := s.store.GetRecord(ctx, runID, id)
	if err != nil {
		return nil, eris.Wrapf(err, "get record %d", id)
	}
	return record, nil
}

// Search returns records of the latest run whose question or answer
// contains query, ignoring case.
func (s *RecordService) Search(ctx context.Context, query string, limit int) ([]domain.QARecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, eris.Wrap(domain.ErrInvalidInput, "search query is empty")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	runID, err := s.store.LatestRun(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "latest run")
	}
	records, err := s.store.SearchRecords(ctx, runID, query, limit)
	if err != nil {
		return nil, eris.Wrapf(err, "search records of run %s", runID)
	}
	return records, nil
}
