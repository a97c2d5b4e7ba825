package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/qapairs/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/qapairs/internal/core/domain"
	"github.com/custodia-labs/qapairs/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.RecordSink  = (*Store)(nil)
	_ driven.RecordStore = (*Store)(nil)
)

// DefaultFileName is the database file created inside the data directory.
const DefaultFileName = "records.db"

// Store is a SQLite-backed record sink and store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at path.
// If path is empty, defaults to ~/.qapairs/data/records.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, eris.Wrap(err, "getting home directory")
		}
		path = filepath.Join(home, ".qapairs", "data", DefaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, eris.Wrap(err, "creating data directory")
	}

	// WAL lets readers (browse, mcp) run while an extraction writes.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, eris.Wrap(err, "opening database")
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "enabling foreign keys")
	}

	s := &Store{
		db:   db,
		path: path,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "running migrations")
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Name identifies the sink in logs.
func (s *Store) Name() string {
	return "sqlite"
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return eris.Wrap(err, "creating schema_migrations table")
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return eris.Wrap(err, "getting current version")
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return eris.Wrap(err, "reading migrations directory")
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return eris.Wrapf(err, "reading migration %s", name)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return eris.Wrap(err, "beginning migration")
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return eris.Wrapf(err, "executing migration %s", name)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return eris.Wrapf(err, "recording migration %s", name)
		}
		if err := tx.Commit(); err != nil {
			return eris.Wrapf(err, "committing migration %s", name)
		}
	}

	return nil
}

// Write persists one extraction as a new run.
func (s *Store) Write(ctx context.Context, extraction *domain.Extraction) error {
	if extraction == nil || extraction.RunID == "" {
		return eris.Wrap(domain.ErrInvalidInput, "extraction needs a run id")
	}

	createdAt := extraction.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after Commit is a no-op

	st := extraction.Stats
	_, err = tx.ExecContext(ctx, `
		INSERT INTO extraction_runs (id, created_at, messages, tracked, skipped_no_body,
			skipped_malformed, orphans_dropped, overrides_applied, pairs, bad_timestamps)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, extraction.RunID, createdAt.UTC(), st.Messages, st.Tracked, st.SkippedNoBody,
		st.SkippedMalformed, st.OrphansDropped, st.OverridesApplied, st.Pairs, st.BadTimestamps)
	if err != nil {
		return eris.Wrap(err, "saving run")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO qa_records (run_id, id, date, src, q, a, qlen, alen, len, type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return eris.Wrap(err, "preparing record insert")
	}
	defer stmt.Close()

	for i := range extraction.Records {
		r := &extraction.Records[i]
		if _, err := stmt.ExecContext(ctx, extraction.RunID, r.ID, r.FormattedDate(), r.Source,
			r.Question, r.Answer, r.QuestionLength, r.AnswerLength, r.TotalLength,
			nullString(r.Classification)); err != nil {
			return eris.Wrapf(err, "saving record %d", r.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "committing run")
	}
	return nil
}

// LatestRun returns the ID of the most recently written run.
func (s *Store) LatestRun(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM extraction_runs ORDER BY seq DESC LIMIT 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", eris.Wrap(err, "querying latest run")
	}
	return id, nil
}

// Runs returns every run ID, most recent first.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM extraction_runs ORDER BY seq DESC")
	if err != nil {
		return nil, eris.Wrap(err, "listing runs")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "scanning run")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "iterating runs")
	}
	return ids, nil
}

// ListRecords returns every record of a run ordered by ID.
func (s *Store) ListRecords(ctx context.Context, runID string) ([]domain.QARecord, error) {
	if err := s.requireRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, selectRecords+" WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, eris.Wrap(err, "listing records")
	}
	return scanRecords(rows)
}

// GetRecord returns one record of a run.
func (s *Store) GetRecord(ctx context.Context, runID string, id int) (*domain.QARecord, error) {
	row := s.db.QueryRowContext(ctx, selectRecords+" WHERE run_id = ? AND id = ?", runID, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "scanning record")
	}
	return r, nil
}

// SearchRecords returns records whose question or answer contains query.
// Matching ignores ASCII case. A limit of zero or less returns every match.
func (s *Store) SearchRecords(ctx context.Context, runID, query string, limit int) ([]domain.QARecord, error) {
	if err := s.requireRun(ctx, runID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}
	pattern := "%" + escapeLike(query) + "%"
	rows, err := s.db.QueryContext(ctx, selectRecords+`
		WHERE run_id = ? AND (q LIKE ? ESCAPE '\' OR a LIKE ? ESCAPE '\')
		ORDER BY id LIMIT ?
	`, runID, pattern, pattern, limit)
	if err != nil {
		return nil, eris.Wrap(err, "searching records")
	}
	return scanRecords(rows)
}

func (s *Store) requireRun(ctx context.Context, runID string) error {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM extraction_runs WHERE id = ?", runID).Scan(&n); err != nil {
		return eris.Wrap(err, "looking up run")
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const selectRecords = "SELECT id, date, src, q, a, qlen, alen, len, type FROM qa_records"

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.QARecord, error) {
	var r domain.QARecord
	var date string
	var class sql.NullString
	if err := row.Scan(&r.ID, &date, &r.Source, &r.Question, &r.Answer,
		&r.QuestionLength, &r.AnswerLength, &r.TotalLength, &class); err != nil {
		return nil, err
	}
	t, err := time.ParseInLocation(domain.DateLayout, date, time.UTC)
	if err != nil {
		return nil, eris.Wrapf(err, "parsing date of record %d", r.ID)
	}
	r.Date = t
	r.Classification = class.String
	return &r, nil
}

func scanRecords(rows *sql.Rows) ([]domain.QARecord, error) {
	defer rows.Close()
	var out []domain.QARecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, eris.Wrap(err, "scanning record")
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "iterating records")
	}
	return out, nil
}

// escapeLike escapes LIKE wildcards so query matches literally.
func escapeLike(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(query)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
