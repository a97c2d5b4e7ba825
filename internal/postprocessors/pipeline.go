// Package postprocessors provides classification processors for assembled pairs.
package postprocessors

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.PairProcessorPipeline = (*Pipeline)(nil)

// Pipeline chains multiple PairProcessors and runs them in order.
// It implements the PairProcessorPipeline interface.
type Pipeline struct {
	processors []driven.PairProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.PairProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the pairs through all processors in order.
// A processor that changes the number of pairs is an error.
func (p *Pipeline) Process(ctx context.Context, pairs []domain.QAPair) ([]domain.QAPair, error) {
	for _, processor := range p.processors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := processor.Process(ctx, pairs)
		if err != nil {
			return nil, eris.Wrapf(err, "processor %s", processor.Name())
		}
		if len(out) != len(pairs) {
			return nil, eris.Errorf("processor %s returned %d pairs, want %d", processor.Name(), len(out), len(pairs))
		}
		pairs = out
	}

	return pairs, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PairProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Names returns processor names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, processor := range p.processors {
		names[i] = processor.Name()
	}
	return names
}
