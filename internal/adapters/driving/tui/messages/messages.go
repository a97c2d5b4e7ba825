// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/qapairs/internal/core/domain"
)

// RecordsLoaded carries records back to the list view. Query is empty
// for a full listing.
type RecordsLoaded struct {
	Query   string
	Records []domain.QARecord
	Err     error
}

// RecordSelected is sent when a record is opened from the list.
type RecordSelected struct {
	Index int
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewRecords is the record list with its filter.
	ViewRecords ViewType = iota
	// ViewPair shows one question/answer pair.
	ViewPair
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewRecords:
		return "records"
	case ViewPair:
		return "pair"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
