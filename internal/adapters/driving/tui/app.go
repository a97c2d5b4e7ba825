package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"

	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/views/pair"
	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/views/records"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	// recordsView lists and filters records.
	recordsView *records.View

	// pairView shows the selected record.
	pairView *pair.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is where esc returns from the help view.
	previousView messages.ViewType

	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, eris.Wrap(err, "creating app")
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		recordsView: records.NewView(s, km, ports.Records),
		pairView:    pair.NewView(s, km),
		currentView: messages.ViewRecords,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.recordsView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It enters the alternate screen and loads the record listing.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("qapairs"),
		a.recordsView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.handleKeyMsg(msg)

	case messages.RecordsLoaded:
		a.err = msg.Err
		a.recordsView, cmd = a.recordsView.Update(msg)
		return a, cmd

	case messages.RecordSelected:
		a.recordsView.SetSelectedIndex(msg.Index)
		a.pairView.SetRecords(a.recordsView.Records(), msg.Index)
		a.currentView = messages.ViewPair
		return a, nil

	case messages.ViewChanged:
		return a.changeView(msg.View), nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.recordsView, cmd = a.recordsView.Update(msg)
		return a, cmd
	}

	return a, nil
}

// handleKeyMsg forwards keys to the active view.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewRecords:
		a.recordsView, cmd = a.recordsView.Update(msg)
	case messages.ViewPair:
		a.pairView, cmd = a.pairView.Update(msg)
	case messages.ViewHelp:
		keyStr := msg.String()
		if keymap.Matches(keyStr, a.keymap.Back) || keymap.Matches(keyStr, a.keymap.Help) {
			a.currentView = a.previousView
			return a, nil
		}
		if keymap.Matches(keyStr, a.keymap.Quit) {
			return a, tea.Quit
		}
	}
	return a, cmd
}

// changeView switches the active view.
func (a *App) changeView(view messages.ViewType) *App {
	switch view {
	case messages.ViewHelp:
		if a.currentView != messages.ViewHelp {
			a.previousView = a.currentView
		}
	case messages.ViewRecords:
		// keep the list cursor on the record last shown
		if a.currentView == messages.ViewPair {
			a.recordsView.SetSelectedIndex(a.pairView.Index())
		}
	case messages.ViewPair:
	}
	a.currentView = view
	return a
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewPair:
		return a.pairView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewRecords:
		return a.recordsView.View()
	default:
		return a.recordsView.View()
	}
}

// viewHelp renders the help view from the full keymap.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, row := range a.keymap.FullHelp() {
		for _, binding := range row {
			h := binding.Help()
			b.WriteString("  ")
			b.WriteString(a.styles.Normal.Render(padRight(h.Key, 12)))
			b.WriteString(a.styles.Muted.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-n)
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Query returns the filter applied to the record list.
func (a *App) Query() string {
	return a.recordsView.Query()
}

// RecordCount returns the number of records listed.
func (a *App) RecordCount() int {
	return len(a.recordsView.Records())
}

// SelectedIndex returns the index of the highlighted record.
func (a *App) SelectedIndex() int {
	return a.recordsView.SelectedIndex()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.recordsView.SetDimensions(width, height)
	a.pairView.SetDimensions(width, height)
}
