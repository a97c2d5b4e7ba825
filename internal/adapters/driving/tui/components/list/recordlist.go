// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/qapairs/internal/core/domain"
)

// linesPerRecord is the height of one rendered record.
const linesPerRecord = 2

// RecordList displays records in a navigable list.
type RecordList struct {
	records  []domain.QARecord
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewRecordList creates a new record list component.
func NewRecordList(s *styles.Styles) *RecordList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RecordList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Update handles list navigation messages.
func (r *RecordList) Update(msg tea.Msg) (*RecordList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "home", "g":
			r.selected = 0
		case "end", "G":
			if len(r.records) > 0 {
				r.selected = len(r.records) - 1
			}
		}
	}
	return r, nil
}

// View renders the record list.
func (r *RecordList) View() string {
	if len(r.records) == 0 {
		return r.styles.Muted.Render("No records")
	}

	visible := (r.height - 2) / linesPerRecord
	if visible < 1 {
		visible = 1
	}

	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.records) {
		end = len(r.records)
	}

	lines := make([]string, 0, (end-start)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Records (%d)", len(r.records))), "")
	for i := start; i < end; i++ {
		lines = append(lines, r.renderRecord(i, &r.records[i]))
	}
	return strings.Join(lines, "\n")
}

// renderRecord formats one record as a header line and a question preview.
func (r *RecordList) renderRecord(index int, rec *domain.QARecord) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	header := fmt.Sprintf("%s#%-4d %s  %s", indicator, rec.ID, rec.FormattedDate(), Truncate(rec.Source, r.width-36))
	var headerLine string
	if index == r.selected {
		headerLine = r.styles.Selected.Render(header)
	} else {
		headerLine = r.styles.Normal.Render(header)
	}
	if rec.Classification != "" {
		headerLine += " " + r.styles.Tag.Render("["+rec.Classification+"]")
	}

	preview := strings.Join(strings.Fields(rec.Question), " ")
	return headerLine + "\n" + r.styles.Muted.Render("    "+Truncate(preview, r.width-6))
}

// Truncate shortens s to at most width runes, marking the cut with "...".
func Truncate(s string, width int) string {
	if width < 10 {
		width = 10
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// SetRecords replaces the list contents and resets the selection.
func (r *RecordList) SetRecords(records []domain.QARecord) {
	r.records = records
	r.selected = 0
}

// Records returns the current records.
func (r *RecordList) Records() []domain.QARecord {
	return r.records
}

// Selected returns the index of the selected record.
func (r *RecordList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *RecordList) SetSelected(index int) {
	if index >= 0 && index < len(r.records) {
		r.selected = index
	}
}

// SelectedRecord returns the currently selected record, or nil if none.
func (r *RecordList) SelectedRecord() *domain.QARecord {
	if len(r.records) == 0 || r.selected < 0 || r.selected >= len(r.records) {
		return nil
	}
	return &r.records[r.selected]
}

// MoveUp moves selection up.
func (r *RecordList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RecordList) MoveDown() {
	if r.selected < len(r.records)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RecordList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of records.
func (r *RecordList) Count() int {
	return len(r.records)
}

// IsEmpty returns whether the list is empty.
func (r *RecordList) IsEmpty() bool {
	return len(r.records) == 0
}
