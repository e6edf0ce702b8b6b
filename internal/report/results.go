package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/gcbaptista/go-bug-analysis/model"
)

// timeLayout has a fixed width so started_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ResultStore keeps the history of analysis runs in SQLite.
type ResultStore struct {
	db *sql.DB
}

// OpenResultStore opens (or creates) the run history database at path in WAL mode.
func OpenResultStore(ctx context.Context, path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open result store %s: %w", path, err)
	}
	// A single connection serializes writers; sqlite locks the file anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL on %s: %w", path, err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &ResultStore{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id TEXT PRIMARY KEY,
	operation TEXT NOT NULL,
	field TEXT,
	generation INTEGER NOT NULL,
	documents INTEGER NOT NULL,
	summary TEXT,
	started_at TEXT NOT NULL,
	duration_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analysis_runs_started ON analysis_runs(started_at);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize result store schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *ResultStore) Close() error {
	return s.db.Close()
}

// RecordRun inserts a run. A missing ID is filled with a new UUID.
func (s *ResultStore) RecordRun(ctx context.Context, run model.AnalysisRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analysis_runs (id, operation, field, generation, documents, summary, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Operation, run.Field, int64(run.Generation), run.Documents, run.Summary,
		run.StartedAt.UTC().Format(timeLayout), run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record %s run: %w", run.Operation, err)
	}
	return nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns every run.
func (s *ResultStore) ListRuns(ctx context.Context, limit int) ([]model.AnalysisRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, operation, field, generation, documents, summary, started_at, duration_ms
		 FROM analysis_runs ORDER BY started_at DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]model.AnalysisRun, 0)
	for rows.Next() {
		var (
			run        model.AnalysisRun
			generation int64
			startedAt  string
			durationMs int64
		)
		if err := rows.Scan(&run.ID, &run.Operation, &run.Field, &generation, &run.Documents, &run.Summary, &startedAt, &durationMs); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Generation = uint64(generation)
		run.Duration = time.Duration(durationMs) * time.Millisecond
		if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, fmt.Errorf("failed to parse start time of run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
