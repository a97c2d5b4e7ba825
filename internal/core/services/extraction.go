package services

import (
	"context"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
	"github.com/custodia-labs/qapairs/internal/core/ports/driving"
	"github.com/custodia-labs/qapairs/internal/logger"
)

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// DefaultWorkers is used when no positive worker count is configured.
const DefaultWorkers = 4

// ExtractionService drives segmentation, thread resolution and pair
// assembly over a whole corpus.
type ExtractionService struct {
	source     driven.MessageSource
	overrides  driven.OverrideStore
	segmenters driven.SegmenterRegistry
	pipeline   driven.PairProcessorPipeline
	sinks      []driven.RecordSink
	workers    int
	now        func() time.Time
}

// NewExtractionService creates a new extraction service.
// The override store, pipeline and sinks are optional.
func NewExtractionService(
	source driven.MessageSource,
	overrides driven.OverrideStore,
	segmenters driven.SegmenterRegistry,
	pipeline driven.PairProcessorPipeline,
	workers int,
	sinks ...driven.RecordSink,
) *ExtractionService {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &ExtractionService{
		source:     source,
		overrides:  overrides,
		segmenters: segmenters,
		pipeline:   pipeline,
		sinks:      sinks,
		workers:    workers,
		now:        time.Now,
	}
}

// messageResult is the outcome of one message. Each worker writes only
// its own slot, so results keep corpus order.
type messageResult struct {
	tracked         bool
	pairs           []domain.QAPair
	noBody          bool
	malformed       bool
	orphan          bool
	overrideApplied bool
}

// Extract loads both corpora, pairs every reply of the tracked participant
// and returns the ordered, numbered records. The result does not depend on
// the worker count.
func (s *ExtractionService) Extract(ctx context.Context) (*domain.Extraction, error) {
	logger.Section("Extraction")

	corpus, err := s.source.Load(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "load corpus")
	}

	var overrides domain.Overrides
	if s.overrides != nil {
		overrides, err = s.overrides.Load(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "load overrides")
		}
	}

	logger.Debug("Loaded %d posts, %d emails, %d overrides", len(corpus.Posts), len(corpus.Emails), len(overrides))

	resolver := NewThreadResolver(s.segmenters, corpus)

	messages := make([]*domain.RawMessage, 0, corpus.Len())
	for i := range corpus.Posts {
		messages = append(messages, &corpus.Posts[i])
	}
	for i := range corpus.Emails {
		messages = append(messages, &corpus.Emails[i])
	}

	results := make([]messageResult, len(messages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, msg := range messages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.processMessage(msg, overrides, resolver)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "assemble pairs")
	}

	stats := domain.ExtractionStats{Messages: len(messages)}
	var pairs []domain.QAPair
	for i := range results {
		r := &results[i]
		if r.tracked {
			stats.Tracked++
		}
		if r.noBody {
			stats.SkippedNoBody++
		}
		if r.malformed {
			stats.SkippedMalformed++
		}
		if r.orphan {
			stats.OrphansDropped++
		}
		if r.overrideApplied {
			stats.OverridesApplied++
		}
		pairs = append(pairs, r.pairs...)
	}

	pairs, err = s.classify(ctx, pairs)
	if err != nil {
		return nil, err
	}
	stats.Pairs = len(pairs)

	records, badTimestamps := buildRecords(pairs)
	stats.BadTimestamps = badTimestamps

	extraction := &domain.Extraction{
		RunID:     uuid.NewString(),
		CreatedAt: s.now().UTC(),
		Records:   records,
		Stats:     stats,
	}

	for _, sink := range s.sinks {
		if err := sink.Write(ctx, extraction); err != nil {
			return nil, eris.Wrapf(err, "write %s", sink.Name())
		}
		logger.Debug("Wrote %d records to %s", len(records), sink.Name())
	}

	logger.L().Info("extraction finished",
		zap.String("run_id", extraction.RunID),
		zap.Int("messages", stats.Messages),
		zap.Int("tracked", stats.Tracked),
		zap.Int("pairs", stats.Pairs),
		zap.Int("records", len(records)),
	)

	return extraction, nil
}

// SegmentBody splits a single body without thread resolution.
func (s *ExtractionService) SegmentBody(conv domain.Convention, body string) (domain.Runs, error) {
	if !conv.IsValid() {
		return nil, eris.Wrapf(domain.ErrUnsupportedConvention, "convention %q", conv)
	}
	return s.segmenters.Segment(conv, body)
}

func (s *ExtractionService) processMessage(
	msg *domain.RawMessage,
	overrides domain.Overrides,
	resolver *ThreadResolver,
) messageResult {
	result := messageResult{tracked: msg.Tracked}
	if !msg.Tracked {
		return result
	}

	override, hasOverride := overrides.Lookup(msg.URL)
	result.overrideApplied = hasOverride

	var runs domain.Runs
	switch {
	case override.HasParts():
		runs = domain.RunsFromTexts(override.Parts)
	case !msg.HasBody():
		result.noBody = true
		logger.L().Debug("skipping message",
			zap.String("url", msg.URL),
			zap.Error(domain.ErrNoBody),
		)
		return result
	default:
		var err error
		runs, err = s.segmenters.Segment(msg.Convention, msg.Body)
		if err != nil {
			result.malformed = true
			logger.L().Warn("skipping message",
				zap.String("url", msg.URL),
				zap.Error(err),
			)
			return result
		}
	}

	runs, resolution := resolver.Resolve(msg, runs, override)
	result.orphan = resolution == OrphanDropped

	pairs, err := AssemblePairs(msg, runs)
	if err != nil {
		result.malformed = true
		logger.L().Warn("skipping message",
			zap.String("url", msg.URL),
			zap.Error(err),
		)
		return result
	}

	if override.Type != "" {
		for i := range pairs {
			pairs[i].Classification = override.Type
		}
	}
	result.pairs = pairs
	return result
}

// classify runs the processor pipeline. Tags that were already set by an
// override are restored if a processor changed them.
func (s *ExtractionService) classify(ctx context.Context, pairs []domain.QAPair) ([]domain.QAPair, error) {
	if s.pipeline == nil || len(pairs) == 0 {
		return pairs, nil
	}

	fixed := make([]string, len(pairs))
	for i := range pairs {
		fixed[i] = pairs[i].Classification
	}

	processed, err := s.pipeline.Process(ctx, pairs)
	if err != nil {
		return nil, eris.Wrap(err, "classify pairs")
	}
	if len(processed) != len(fixed) {
		return nil, eris.Errorf("classify pairs: pipeline returned %d pairs, want %d", len(processed), len(fixed))
	}
	for i := range processed {
		if fixed[i] != "" {
			processed[i].Classification = fixed[i]
		}
	}
	return processed, nil
}

// buildRecords normalises timestamps, orders pairs by date and numbers
// them from 1. Pairs with unparsable timestamps are skipped and counted.
func buildRecords(pairs []domain.QAPair) ([]domain.QARecord, int) {
	dated := make([]domain.QAPair, 0, len(pairs))
	bad := 0
	for _, pair := range pairs {
		t, err := ParseTimestamp(pair.RawDate)
		if err != nil {
			bad++
			logger.L().Warn("skipping pair",
				zap.String("url", pair.URL),
				zap.Error(err),
			)
			continue
		}
		pair.Date = t
		dated = append(dated, pair)
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Date.Before(dated[j].Date)
	})

	records := make([]domain.QARecord, len(dated))
	for i, pair := range dated {
		qlen := utf8.RuneCountInString(pair.Question)
		alen := utf8.RuneCountInString(pair.Answer)
		records[i] = domain.QARecord{
			ID:             i + 1,
			Date:           pair.Date,
			Source:         pair.URL,
			Question:       pair.Question,
			Answer:         pair.Answer,
			QuestionLength: qlen,
			AnswerLength:   alen,
			TotalLength:    qlen + alen,
			Classification: pair.Classification,
		}
	}
	return records, bad
}
