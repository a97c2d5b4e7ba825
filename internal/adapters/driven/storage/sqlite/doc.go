// Package sqlite persists extraction runs and their records in SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. One Store implements both driven.RecordSink (written by
// the extract command) and driven.RecordStore (read by records, browse and
// the MCP server).
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Every run is kept; records are keyed by
// (run_id, id) and queries default to the latest run.
//
// # Data Location
//
// By default the database is stored at ~/.qapairs/data/records.db.
//
// # Thread Safety
//
// All operations are safe for concurrent use. SQLite runs in WAL mode.
package sqlite
