package driven

import (
	"context"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

// MessageSource loads the message collections of one extraction.
// The returned corpus is treated as read-only.
type MessageSource interface {
	// Load reads every message of both collections.
	Load(ctx context.Context) (*domain.Corpus, error)
}

// OverrideStore loads the manual correction table.
type OverrideStore interface {
	// Load returns the table. A missing table is an empty table, not an error.
	Load(ctx context.Context) (domain.Overrides, error)
}
