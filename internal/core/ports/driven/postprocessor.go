package driven

import (
	"context"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

// PairProcessor derives or adjusts fields of assembled pairs before they
// are ordered and numbered. Processors are chained in a pipeline.
type PairProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process returns the pairs with its changes applied.
	// It must not drop or reorder pairs.
	Process(ctx context.Context, pairs []domain.QAPair) ([]domain.QAPair, error)
}

// PairProcessorPipeline chains multiple PairProcessors.
type PairProcessorPipeline interface {
	// Process runs the pairs through all processors in order.
	Process(ctx context.Context, pairs []domain.QAPair) ([]domain.QAPair, error)
}
