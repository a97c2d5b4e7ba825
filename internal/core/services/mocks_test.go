package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
	"github.com/custodia-labs/qapairs/internal/segmenters"
)

func defaultRegistry(t *testing.T) *segmenters.Registry {
	t.Helper()
	settings := domain.DefaultSettings()
	r, err := segmenters.NewDefaultRegistry(&settings)
	require.NoError(t, err)
	return r
}

// mockSource implements driven.MessageSource.
type mockSource struct {
	corpus *domain.Corpus
	err    error
}

func (m *mockSource) Load(_ context.Context) (*domain.Corpus, error) {
	if m.err != nil {
		return nil, m.err
	}
	// Hand out a fresh copy so repeated runs never share slices.
	c := &domain.Corpus{
		Posts:  append([]domain.RawMessage(nil), m.corpus.Posts...),
		Emails: append([]domain.RawMessage(nil), m.corpus.Emails...),
	}
	return c, nil
}

// mockOverrides implements driven.OverrideStore.
type mockOverrides struct {
	table domain.Overrides
	err   error
}

func (m *mockOverrides) Load(_ context.Context) (domain.Overrides, error) {
	return m.table, m.err
}

// recordingSink implements driven.RecordSink.
type recordingSink struct {
	mu          sync.Mutex
	extractions []*domain.Extraction
	err         error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Write(_ context.Context, extraction *domain.Extraction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.extractions = append(s.extractions, extraction)
	return nil
}

// funcPipeline implements driven.PairProcessorPipeline.
type funcPipeline func([]domain.QAPair) ([]domain.QAPair, error)

func (f funcPipeline) Process(_ context.Context, pairs []domain.QAPair) ([]domain.QAPair, error) {
	return f(pairs)
}

// fixedSegmenter returns the same runs for every body.
type fixedSegmenter struct {
	conv domain.Convention
	runs domain.Runs
	err  error
}

func (s *fixedSegmenter) Convention() domain.Convention { return s.conv }

func (s *fixedSegmenter) Segment(_ string) (domain.Runs, error) { return s.runs, s.err }

var (
	_ driven.MessageSource         = (*mockSource)(nil)
	_ driven.OverrideStore         = (*mockOverrides)(nil)
	_ driven.RecordSink            = (*recordingSink)(nil)
	_ driven.PairProcessorPipeline = funcPipeline(nil)
	_ driven.Segmenter             = (*fixedSegmenter)(nil)
)

func intPtr(n int) *int { return &n }
