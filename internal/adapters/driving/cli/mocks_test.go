package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driving"
	"github.com/custodia-labs/qapairs/internal/logger"
)

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings    domain.Settings
	getErr      error
	setErr      error
	validateErr error
	setKey      string
	setValue    any
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) Set(key string, value any) error {
	m.setKey = key
	m.setValue = value
	return m.setErr
}

// mockExtractionService implements driving.ExtractionService for testing.
type mockExtractionService struct {
	extraction *domain.Extraction
	extractErr error
	runs       domain.Runs
	segmentErr error
	gotConv    domain.Convention
	gotBody    string
}

func (m *mockExtractionService) Extract(_ context.Context) (*domain.Extraction, error) {
	return m.extraction, m.extractErr
}

func (m *mockExtractionService) SegmentBody(conv domain.Convention, body string) (domain.Runs, error) {
	m.gotConv = conv
	m.gotBody = body
	return m.runs, m.segmentErr
}

// mockRecordService implements driving.RecordService for testing.
type mockRecordService struct {
	records     []domain.QARecord
	err         error
	searchQuery string
	searchLimit int
}

func (m *mockRecordService) List(_ context.Context) ([]domain.QARecord, error) {
	return m.records, m.err
}

func (m *mockRecordService) Get(_ context.Context, id int) (*domain.QARecord, error) {
	if m.err != nil {
		return nil, m.err
	}
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
	return m.records, m.err
}

// mockBackend implements Backend for testing.
type mockBackend struct {
	settings      *mockSettingsService
	extraction    *mockExtractionService
	records       *mockRecordService
	extractionErr error
	recordsErr    error

	gotSettings *domain.Settings
	gotSinks    bool
	gotPath     string
	released    int
}

func (m *mockBackend) Settings() driving.SettingsService {
	return m.settings
}

func (m *mockBackend) Extraction(settings *domain.Settings, sinks bool) (driving.ExtractionService, func() error, error) {
	m.gotSettings = settings
	m.gotSinks = sinks
	if m.extractionErr != nil {
		return nil, nil, m.extractionErr
	}
	return m.extraction, m.release, nil
}

func (m *mockBackend) Records(path string) (driving.RecordService, func() error, error) {
	m.gotPath = path
	if m.recordsErr != nil {
		return nil, nil, m.recordsErr
	}
	return m.records, m.release, nil
}

func (m *mockBackend) release() error {
	m.released++
	return nil
}

func testRecords() []domain.QARecord {
	date := time.Date(2008, 11, 3, 8, 0, 0, 0, time.UTC)
	return []domain.QARecord{
		{
			ID: 1, Date: date, Source: "https://mail.example/2",
			Question: "What about X?", Answer: "X works like this.",
			QuestionLength: 13, AnswerLength: 18, TotalLength: 31,
		},
		{
			ID: 2, Date: date.Add(time.Hour), Source: "https://forum.example/10.1",
			Question: "Is it anonymous?", Answer: "Not by default.",
			QuestionLength: 16, AnswerLength: 15, TotalLength: 31,
			Classification: domain.ClassFavorite,
		},
	}
}

// setupTestBackend installs a mock backend for the duration of a test.
func setupTestBackend(t *testing.T) *mockBackend {
	t.Helper()
	m := &mockBackend{
		settings: &mockSettingsService{settings: domain.DefaultSettings()},
		extraction: &mockExtractionService{
			extraction: &domain.Extraction{
				RunID:   "run-1",
				Records: testRecords(),
				Stats:   domain.ExtractionStats{Messages: 5, Tracked: 3, Pairs: 2},
			},
		},
		records: &mockRecordService{records: testRecords()},
	}

	old := backend
	backend = m
	t.Cleanup(func() { backend = old })
	return m
}

// execute runs the root command with args and returns everything written.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
		logger.SetOutput(os.Stderr)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// executeWithInput runs the root command reading stdin from input.
func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	rootCmd.SetIn(strings.NewReader(input))
	return execute(t, args...)
}

// resetFlags restores every flag to its default so tests do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// executeContext runs the root command with ctx using the args already set.
func executeContext(t *testing.T, ctx context.Context) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
		logger.SetOutput(os.Stderr)
	})

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}
