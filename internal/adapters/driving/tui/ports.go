// Package tui provides an interactive terminal browser for extracted
// question/answer records. It is a driving adapter over driving.RecordService.
package tui

import (
	"github.com/custodia-labs/qapairs/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI needs.
type Ports struct {
	// Records reads the records of the latest run.
	Records driving.RecordService
}

// NewPorts creates a new Ports aggregate.
func NewPorts(records driving.RecordService) *Ports {
	return &Ports{Records: records}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Records == nil {
		return ErrMissingRecordService
	}
	return nil
}
