package mcp

import (
	"context"
	"strings"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

// mockExtractionService is a mock implementation of driving.ExtractionService.
type mockExtractionService struct {
	runs domain.Runs
	err  error

	gotConvention domain.Convention
	gotBody       string
}

func (m *mockExtractionService) Extract(_ context.Context) (*domain.Extraction, error) {
	return &domain.Extraction{}, m.err
}

func (m *mockExtractionService) SegmentBody(conv domain.Convention, body string) (domain.Runs, error) {
	m.gotConvention = conv
	m.gotBody = body
	return m.runs, m.err
}

// mockRecordService is a mock implementation of driving.RecordService.
type mockRecordService struct {
	records []domain.QARecord
	err     error

	gotLimit int
}

func (m *mockRecordService) List(_ context.Context) ([]domain.QARecord, error) {
	return m.records, m.err
}

func (m *mockRecordService) Get(_ context.Context, id int) (*domain.QARecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.records {
		if m.records[i].ID == id {
			return &m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRecordService) Search(_ context.Context, query string, limit int) ([]domain.QARecord, error) {
	m.gotLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.QARecord
	for _, r := range m.records {
		if strings.Contains(r.Question, query) || strings.Contains(r.Answer, query) {
			out = append(out, r)
		}
	}
	return out, nil
}
