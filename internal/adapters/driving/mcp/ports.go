package mcp

import (
	"github.com/custodia-labs/qapairs/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Extraction segments message bodies.
	Extraction driving.ExtractionService

	// Records reads persisted pairs. Optional: without it the record
	// tools and resources report ErrRecordsUnavailable.
	Records driving.RecordService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Extraction == nil {
		return ErrMissingExtractionService
	}
	return nil
}
