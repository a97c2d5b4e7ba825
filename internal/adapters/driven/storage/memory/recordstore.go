package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
)

// Ensure RecordStore implements the interfaces.
var (
	_ driven.RecordSink  = (*RecordStore)(nil)
	_ driven.RecordStore = (*RecordStore)(nil)
)

// RecordStore is an in-memory record sink and store. It keeps every run
// written to it, latest last.
type RecordStore struct {
	mu   sync.RWMutex
	runs []domain.Extraction
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// Name identifies the sink in logs.
func (s *RecordStore) Name() string {
	return "memory"
}

// Write stores a copy of the extraction.
func (s *RecordStore) Write(_ context.Context, extraction *domain.Extraction) error {
	run := *extraction
	run.Records = append([]domain.QARecord(nil), extraction.Records...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

// LatestRun returns the ID of the most recently written run.
func (s *RecordStore) LatestRun(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.runs) == 0 {
		return "", domain.ErrNotFound
	}
	return s.runs[len(s.runs)-1].RunID, nil
}

// ListRecords returns every record of a run ordered by ID.
func (s *RecordStore) ListRecords(_ context.Context, runID string) ([]domain.QARecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run := s.find(runID)
	if run == nil {
		return nil, domain.ErrNotFound
	}
	return append([]domain.QARecord(nil), run.Records...), nil
}

// GetRecord returns one record of a run.
func (s *RecordStore) GetRecord(_ context.Context, runID string, id int) (*domain.QARecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run := s.find(runID)
	if run == nil {
		return nil, domain.ErrNotFound
	}
	for _, r := range run.Records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// SearchRecords returns records whose question or answer contains query,
// ignoring case.
func (s *RecordStore) SearchRecords(_ context.Context, runID, query string, limit int) ([]domain.QARecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run := s.find(runID)
	if run == nil {
		return nil, domain.ErrNotFound
	}

	needle := strings.ToLower(query)
	var out []domain.QARecord
	for _, r := range run.Records {
		if limit > 0 && len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(r.Question), needle) ||
			strings.Contains(strings.ToLower(r.Answer), needle) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *RecordStore) find(runID string) *domain.Extraction {
	for i := len(s.runs) - 1; i >= 0; i-- {
		if s.runs[i].RunID == runID {
			return &s.runs[i]
		}
	}
	return nil
}
