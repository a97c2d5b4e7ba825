package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qapairs/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), DefaultFileName))
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testExtraction(runID string) *domain.Extraction {
	return &domain.Extraction{
		RunID:     runID,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Records: []domain.QARecord{
			{
				ID: 1, Date: time.Date(2008, 11, 2, 8, 0, 0, 0, time.UTC),
				Source: "https://mail.example/2", Question: "What about double spending?", Answer: "The chain decides.",
				QuestionLength: 27, AnswerLength: 18, TotalLength: 45,
			},
			{
				ID: 2, Date: time.Date(2009, 12, 10, 11, 0, 0, 0, time.UTC),
				Source: "https://forum.example/10.1", Question: "Is it 100% anonymous?", Answer: "Not by default.",
				QuestionLength: 21, AnswerLength: 15, TotalLength: 36, Classification: domain.ClassExclude,
			},
			{
				ID: 3, Date: time.Date(2010, 1, 5, 0, 0, 0, 0, time.UTC),
				Source: "https://forum.example/11.3", Question: "Block_size limit?", Answer: "It can be raised later.",
				QuestionLength: 17, AnswerLength: 23, TotalLength: 40,
			},
		},
		Stats: domain.ExtractionStats{Messages: 9, Tracked: 4, Pairs: 3, OrphansDropped: 1},
	}
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path/records.db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "qa.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, path, store.Path())
	assert.Equal(t, "sqlite", store.Name())
	assert.FileExists(t, path)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	for _, table := range []string{"extraction_runs", "qa_records"} {
		var name string
		err := store.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)

	first, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Write(context.Background(), testExtraction("run-1")))
	require.NoError(t, first.Close())

	second, err := NewStore(path)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)

	records, err := second.ListRecords(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

// ==================== Record Sink Tests ====================

func TestStore_WriteAndList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	want := testExtraction("run-1")

	require.NoError(t, store.Write(ctx, want))

	got, err := store.ListRecords(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, want.Records, got)

	var pairs, orphans int
	require.NoError(t, store.db.QueryRow(
		"SELECT pairs, orphans_dropped FROM extraction_runs WHERE id = ?", "run-1").Scan(&pairs, &orphans))
	assert.Equal(t, 3, pairs)
	assert.Equal(t, 1, orphans)
}

func TestStore_WriteEmptyRun(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, &domain.Extraction{RunID: "empty"}))

	records, err := store.ListRecords(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_WriteInvalid(t *testing.T) {
	store := setupTestStore(t)

	assert.ErrorIs(t, store.Write(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Write(context.Background(), &domain.Extraction{}), domain.ErrInvalidInput)
}

func TestStore_WriteDuplicateRunRollsBack(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, testExtraction("run-1")))
	assert.Error(t, store.Write(ctx, testExtraction("run-1")))

	records, err := store.ListRecords(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

// ==================== Record Store Tests ====================

func TestStore_LatestRun(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.LatestRun(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Write(ctx, testExtraction("run-1")))
	require.NoError(t, store.Write(ctx, testExtraction("run-2")))

	latest, err := store.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-2", latest)

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-2", "run-1"}, runs)
}

func TestStore_ListRecords_UnknownRun(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.ListRecords(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_GetRecord(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, testExtraction("run-1")))

	r, err := store.GetRecord(ctx, "run-1", 2)
	require.NoError(t, err)
	assert.Equal(t, "Not by default.", r.Answer)
	assert.Equal(t, domain.ClassExclude, r.Classification)
	assert.Equal(t, time.UTC, r.Date.Location())

	_, err = store.GetRecord(ctx, "run-1", 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.GetRecord(ctx, "other", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SearchRecords(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, testExtraction("run-1")))

	tests := []struct {
		name  string
		query string
		limit int
		want  []int
	}{
		{name: "question match", query: "double", want: []int{1}},
		{name: "answer match ignores case", query: "NOT BY", want: []int{2}},
		{name: "several matches ordered by id", query: "it", want: []int{2, 3}},
		{name: "limit", query: "e", limit: 2, want: []int{1, 2}},
		{name: "percent is literal", query: "100%", want: []int{2}},
		{name: "underscore is literal", query: "k_s", want: []int{3}},
		{name: "no match", query: "zzz", want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := store.SearchRecords(ctx, "run-1", tc.query, tc.limit)
			require.NoError(t, err)
			var ids []int
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}

	_, err := store.SearchRecords(ctx, "nope", "x", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ContextCancellation(t *testing.T) {
	store := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.Write(ctx, testExtraction("run-1")))
	_, err := store.LatestRun(ctx)
	assert.Error(t, err)
}
