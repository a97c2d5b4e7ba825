package records

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qapairs/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/qapairs/internal/core/domain"
)

// mockRecordService implements driving.RecordService for testing.
type mockRecordService struct {
	records     []domain.QARecord
	err         error
	searchQuery string
	searchLimit int
	listCalls   int
}

func (m *mockRecordService) List(_ context.Context) ([]domain.QARecord, error) {
	m.listCalls++
	return m.records, m.err
}

func (m *mockRecordService) Get(_ context.Context, id int) (*domain.QARecord, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			return &m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRecordService) Search(_ context.Context, query string, limit int) ([]domain.QARecord, error) {
	m.searchQuery = query
	m.searchLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.records[:1], nil
}

func testRecords() []domain.QARecord {
	date := time.Date(2009, 2, 11, 22, 27, 0, 0, time.UTC)
	return []domain.QARecord{
		{ID: 1, Date: date, Source: "https://forum.example/1", Question: "What about fees?", Answer: "Fees are optional."},
		{ID: 2, Date: date, Source: "https://forum.example/2", Question: "Why a block limit?", Answer: "Spam.", Classification: domain.ClassFavorite},
		{ID: 3, Date: date, Source: "emails/3.eml", Question: "Is it done?", Answer: "Nearly."},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newReadyView(svc *mockRecordService) *View {
	v := NewView(nil, nil, svc)
	v.SetDimensions(100, 40)
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil)

	require.NotNil(t, v)
	assert.False(t, v.Ready())
	assert.Equal(t, "Initialising...", v.View())
	assert.Empty(t, v.Records())
	assert.False(t, v.Filtering())
}

func TestView_InitLoadsRecords(t *testing.T) {
	svc := &mockRecordService{records: testRecords()}
	v := newReadyView(svc)

	cmd := v.Init()
	require.NotNil(t, cmd)

	msg := cmd()
	loaded, ok := msg.(messages.RecordsLoaded)
	require.True(t, ok)
	assert.Empty(t, loaded.Query)
	assert.Len(t, loaded.Records, 3)
	assert.Equal(t, 1, svc.listCalls)

	v, _ = v.Update(loaded)
	assert.Len(t, v.Records(), 3)
	assert.NoError(t, v.Err())
	assert.Contains(t, v.View(), "3 records")
	assert.Contains(t, v.View(), "What about fees?")
}

func TestView_InitWithoutService(t *testing.T) {
	v := newReadyView(nil)

	msg := v.Init()()
	loaded, ok := msg.(messages.RecordsLoaded)
	require.True(t, ok)
	assert.ErrorIs(t, loaded.Err, ErrNoRecordService)

	v, _ = v.Update(loaded)
	assert.ErrorIs(t, v.Err(), ErrNoRecordService)
	assert.Contains(t, v.View(), "record service is required")
}

func TestView_FilterFlow(t *testing.T) {
	svc := &mockRecordService{records: testRecords()}
	v := newReadyView(svc)
	v, _ = v.Update(messages.RecordsLoaded{Records: svc.records})

	v, _ = v.Update(runes("/"))
	require.True(t, v.Filtering())

	v, _ = v.Update(runes("fees"))
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, v.Filtering())

	loaded, ok := cmd().(messages.RecordsLoaded)
	require.True(t, ok)
	assert.Equal(t, "fees", loaded.Query)
	assert.Equal(t, "fees", svc.searchQuery)
	assert.Equal(t, 0, svc.searchLimit)

	v, _ = v.Update(loaded)
	assert.Equal(t, "fees", v.Query())
	assert.Len(t, v.Records(), 1)
	assert.Contains(t, v.View(), `1 records matching "fees"`)
}

func TestView_FilterCancel(t *testing.T) {
	svc := &mockRecordService{records: testRecords()}
	v := newReadyView(svc)

	v, _ = v.Update(runes("/"))
	v, _ = v.Update(runes("abc"))
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.False(t, v.Filtering())
	assert.Empty(t, svc.searchQuery)
}

func TestView_EscClearsFilter(t *testing.T) {
	svc := &mockRecordService{records: testRecords()}
	v := newReadyView(svc)
	v, _ = v.Update(messages.RecordsLoaded{Query: "fees", Records: svc.records[:1]})

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	loaded, ok := cmd().(messages.RecordsLoaded)
	require.True(t, ok)
	assert.Empty(t, loaded.Query)
	assert.Equal(t, 1, svc.listCalls)

	v, _ = v.Update(loaded)
	assert.Empty(t, v.Query())
	assert.Len(t, v.Records(), 3)
}

func TestView_EscWithoutFilter(t *testing.T) {
	v := newReadyView(&mockRecordService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
}

func TestView_OpenRecord(t *testing.T) {
	svc := &mockRecordService{records: testRecords()}
	v := newReadyView(svc)
	v, _ = v.Update(messages.RecordsLoaded{Records: svc.records})

	v, _ = v.Update(runes("j"))
	assert.Equal(t, 1, v.SelectedIndex())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.RecordSelected{Index: 1}, cmd())
}

func TestView_OpenEmptyList(t *testing.T) {
	v := newReadyView(&mockRecordService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestView_Paging(t *testing.T) {
	recs := make([]domain.QARecord, 40)
	for i := range recs {
		recs[i] = domain.QARecord{ID: i + 1, Question: "q", Answer: "a"}
	}
	v := newReadyView(&mockRecordService{})
	v, _ = v.Update(messages.RecordsLoaded{Records: recs})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, v.pageSize(), v.SelectedIndex())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 0, v.SelectedIndex())
}

func TestView_HelpAndQuit(t *testing.T) {
	v := newReadyView(&mockRecordService{})

	_, cmd := v.Update(runes("?"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewHelp}, cmd())

	_, cmd = v.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView_QuitKeyTypesIntoFilter(t *testing.T) {
	v := newReadyView(&mockRecordService{})

	v, _ = v.Update(runes("/"))
	v, _ = v.Update(runes("q"))

	assert.True(t, v.Filtering())
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, v.Filtering())
}

func TestView_LoadError(t *testing.T) {
	svc := &mockRecordService{err: errors.New("database locked")}
	v := newReadyView(svc)

	v, _ = v.Update(v.Init()())

	assert.Error(t, v.Err())
	assert.Contains(t, v.View(), "database locked")
}

func TestView_ErrorOccurred(t *testing.T) {
	v := newReadyView(&mockRecordService{})

	v, _ = v.Update(messages.ErrorOccurred{Err: errors.New("boom")})
	assert.EqualError(t, v.Err(), "boom")
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil, nil, &mockRecordService{})

	v, _ = v.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	assert.True(t, v.Ready())

	v.SetSelectedIndex(5)
	assert.Equal(t, 0, v.SelectedIndex(), "out of range selection is ignored")
}

func TestView_WithContext(t *testing.T) {
	v := NewView(nil, nil, nil)
	assert.Same(t, v, v.WithContext(context.Background()))
}
