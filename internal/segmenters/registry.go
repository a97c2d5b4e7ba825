package segmenters

import (
	"sort"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
	"github.com/custodia-labs/qapairs/internal/segmenters/email"
	"github.com/custodia-labs/qapairs/internal/segmenters/markup"
)

// Ensure Registry implements the interface.
var _ driven.SegmenterRegistry = (*Registry)(nil)

// Registry dispatches message bodies to the segmenter for their convention.
// It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	segmenters map[domain.Convention]driven.Segmenter
}

// NewRegistry creates a registry holding the given segmenters.
func NewRegistry(segmenters ...driven.Segmenter) *Registry {
	r := &Registry{
		segmenters: make(map[domain.Convention]driven.Segmenter, len(segmenters)),
	}
	for _, s := range segmenters {
		r.Register(s)
	}
	return r
}

// NewDefaultRegistry creates a registry with the email and forum
// segmenters configured from settings.
func NewDefaultRegistry(settings *domain.Settings) (*Registry, error) {
	emailSegmenter, err := email.New(settings.Email)
	if err != nil {
		return nil, err
	}
	forumSegmenter, err := markup.New(settings.Forum)
	if err != nil {
		return nil, err
	}
	return NewRegistry(emailSegmenter, forumSegmenter), nil
}

// Register adds a segmenter, replacing any with the same convention.
func (r *Registry) Register(segmenter driven.Segmenter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.segmenters[segmenter.Convention()] = segmenter
}

// Segment splits body with the segmenter registered for conv.
func (r *Registry) Segment(conv domain.Convention, body string) (domain.Runs, error) {
	r.mu.RLock()
	s, ok := r.segmenters[conv]
	r.mu.RUnlock()
	if !ok {
		return nil, eris.Wrapf(domain.ErrUnsupportedConvention, "segment %q", conv)
	}
	return s.Segment(body)
}

// Conventions returns all registered conventions in sorted order.
func (r *Registry) Conventions() []domain.Convention {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conventions := make([]domain.Convention, 0, len(r.segmenters))
	for conv := range r.segmenters {
		conventions = append(conventions, conv)
	}
	sort.Slice(conventions, func(i, j int) bool { return conventions[i] < conventions[j] })
	return conventions
}
