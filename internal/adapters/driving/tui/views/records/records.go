// Package records provides the record list view with its filter input.
package records

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driving"
)

// View lists the records of the latest run and filters them by text.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.FilterInput
	list      *list.RecordList
	statusbar *status.Bar

	recordService driving.RecordService
	ctx           context.Context

	query  string
	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new records view.
func NewView(s *styles.Styles, km *keymap.KeyMap, recordService driving.RecordService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewFilterInput(s),
		list:          list.NewRecordList(s),
		statusbar:     status.NewBar(s, km),
		recordService: recordService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the full record listing.
func (v *View) Init() tea.Cmd {
	v.statusbar.SetState(status.StateLoading)
	return v.load("")
}

// Update handles messages for the records view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.RecordsLoaded:
		v.handleRecordsLoaded(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.input.Focused() {
		return v.handleFilterKey(msg)
	}

	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Filter):
		v.statusbar.SetState(status.StateFiltering)
		return v, v.input.Focus()
	case keymap.Matches(keyStr, v.keymap.Open):
		if v.list.IsEmpty() {
			return v, nil
		}
		index := v.list.Selected()
		return v, func() tea.Msg {
			return messages.RecordSelected{Index: index}
		}
	case keymap.Matches(keyStr, v.keymap.Help):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHelp}
		}
	case keymap.Matches(keyStr, v.keymap.Back):
		if v.query == "" {
			return v, nil
		}
		// esc on a filtered list restores the full listing
		v.input.Reset()
		v.statusbar.SetState(status.StateLoading)
		return v, v.load("")
	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, tea.Quit
	case keymap.Matches(keyStr, v.keymap.PageUp):
		for i := 0; i < v.pageSize(); i++ {
			v.list.MoveUp()
		}
		return v, nil
	case keymap.Matches(keyStr, v.keymap.PageDown):
		for i := 0; i < v.pageSize(); i++ {
			v.list.MoveDown()
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// handleFilterKey processes keys while the filter has focus.
func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		v.input.Blur()
		v.statusbar.SetState(status.StateLoading)
		return v, v.load(v.input.Value())
	case tea.KeyEsc:
		v.input.Blur()
		v.input.SetValue(v.query)
		v.statusbar.SetState(status.StateReady)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// load returns a command that lists or searches records.
func (v *View) load(query string) tea.Cmd {
	svc := v.recordService
	ctx := v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.RecordsLoaded{Query: query, Err: ErrNoRecordService}
		}
		var (
			recs []domain.QARecord
			err  error
		)
		if query == "" {
			recs, err = svc.List(ctx)
		} else {
			recs, err = svc.Search(ctx, query, 0)
		}
		return messages.RecordsLoaded{Query: query, Records: recs, Err: err}
	}
}

// handleRecordsLoaded applies a finished listing or search.
func (v *View) handleRecordsLoaded(msg messages.RecordsLoaded) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.query = msg.Query
	v.list.SetRecords(msg.Records)
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
	v.statusbar.SetCount(len(msg.Records), msg.Query)
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) pageSize() int {
	n := (v.height - 10) / 2
	if n < 1 {
		n = 1
	}
	return n
}

// View renders the records view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("qapairs"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the filter that produced the current records.
func (v *View) Query() string {
	return v.query
}

// Records returns the records currently listed.
func (v *View) Records() []domain.QARecord {
	return v.list.Records()
}

// SelectedIndex returns the index of the highlighted record.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// SetSelectedIndex highlights the record at index.
func (v *View) SetSelectedIndex(index int) {
	v.list.SetSelected(index)
}

// Filtering returns whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.input.Focused()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
