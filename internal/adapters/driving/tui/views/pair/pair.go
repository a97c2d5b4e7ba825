// Package pair provides the view that shows one question/answer record.
package pair

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/qapairs/internal/core/domain"
)

// reservedLines covers the title, separator, status bar and padding.
const reservedLines = 6

// View shows the question and answer of one record and steps through
// the records of the list it was opened from.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar

	records      []domain.QARecord
	index        int
	lines        []string
	scrollOffset int
	width        int
	height       int
}

// NewView creates a new pair view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetState(status.StateDetail)

	return &View{
		styles:    s,
		keymap:    km,
		statusbar: bar,
		width:     80,
		height:    24,
	}
}

// SetRecords sets the records to browse and shows the one at index.
func (v *View) SetRecords(records []domain.QARecord, index int) {
	v.records = records
	v.index = 0
	if index >= 0 && index < len(records) {
		v.index = index
	}
	v.show()
}

// Update handles messages for the pair view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case keymap.Matches(keyStr, v.keymap.Down):
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case keymap.Matches(keyStr, v.keymap.PageUp):
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case keymap.Matches(keyStr, v.keymap.PageDown):
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case keyStr == "home" || keyStr == "g":
		v.scrollOffset = 0
	case keyStr == "end" || keyStr == "G":
		v.scrollOffset = v.maxScrollOffset()
	case keymap.Matches(keyStr, v.keymap.Next):
		if v.index < len(v.records)-1 {
			v.index++
			v.show()
		}
	case keymap.Matches(keyStr, v.keymap.Prev):
		if v.index > 0 {
			v.index--
			v.show()
		}
	case keymap.Matches(keyStr, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewRecords}
		}
	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, tea.Quit
	}

	return v, nil
}

// show resets scrolling and lays out the current record.
func (v *View) show() {
	v.scrollOffset = 0
	v.layout()
	if len(v.records) > 0 {
		v.statusbar.SetMessage(fmt.Sprintf("Record %d of %d", v.index+1, len(v.records)))
	} else {
		v.statusbar.SetMessage("")
	}
}

// layout wraps the current record to the view width.
func (v *View) layout() {
	rec := v.Record()
	if rec == nil {
		v.lines = nil
		return
	}

	contentWidth := v.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}
	wrap := lipgloss.NewStyle().Width(contentWidth)

	meta := fmt.Sprintf("%s  %s", rec.FormattedDate(), rec.Source)
	if rec.Classification != "" {
		meta += "  " + v.styles.Tag.Render("["+rec.Classification+"]")
	}
	stats := fmt.Sprintf("question %d chars, answer %d chars", rec.QuestionLength, rec.AnswerLength)

	lines := []string{
		v.styles.Muted.Render(meta),
		v.styles.Muted.Render(stats),
		"",
		v.styles.Question.Render("Question"),
	}
	lines = append(lines, strings.Split(wrap.Render(rec.Question), "\n")...)
	lines = append(lines, "", v.styles.Answer.Render("Answer"))
	lines = append(lines, strings.Split(wrap.Render(rec.Answer), "\n")...)
	v.lines = lines
}

// visibleLines returns the number of content lines that fit.
func (v *View) visibleLines() int {
	available := v.height - reservedLines
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the pair view.
func (v *View) View() string {
	var b strings.Builder

	title := "Record"
	if rec := v.Record(); rec != nil {
		title = fmt.Sprintf("Record #%d", rec.ID)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(v.width-4, 60)))
	b.WriteString("\n\n")

	if len(v.lines) == 0 {
		b.WriteString(v.styles.Muted.Render("(No record)"))
	} else {
		end := min(v.scrollOffset+v.visibleLines(), len(v.lines))
		b.WriteString(strings.Join(v.lines[v.scrollOffset:end], "\n"))
	}

	b.WriteString("\n\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

// SetDimensions sets the view dimensions and re-wraps the record.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.statusbar.SetWidth(width)
	v.layout()
	v.scrollOffset = min(v.scrollOffset, v.maxScrollOffset())
}

// Record returns the record being shown, or nil.
func (v *View) Record() *domain.QARecord {
	if v.index < 0 || v.index >= len(v.records) {
		return nil
	}
	return &v.records[v.index]
}

// Index returns the position of the shown record in its list.
func (v *View) Index() int {
	return v.index
}

// ScrollOffset returns the first visible content line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}
