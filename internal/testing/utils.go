// Package testing provides fixtures and helpers for testing the bug analysis engine.
package testing

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-bug-analysis/config"
	"github.com/gcbaptista/go-bug-analysis/internal/engine"
	"github.com/gcbaptista/go-bug-analysis/model"
)

// BugHeader is the column layout of the fixture corpus.
var BugHeader = []string{"Ticket Id", "Subject", "Summary", "Category"}

// BugRows is a small labelled corpus. The first three subjects are the
// "login error", "login success", "payment error" example.
var BugRows = [][]string{
	{"T-1", "login error", "user cannot login after password reset", "user"},
	{"T-2", "login success", "login page shows success but session expires", "session"},
	{"T-3", "payment error", "payment module throws error on checkout", "error"},
	{"T-4", "exam report crash", "exam report export crashes the editor", "report"},
	{"T-5", "session timeout", "session expires too early for users", "session"},
	{"T-6", "catalog search error", "catalog search returns an error", "catalog"},
}

// BugRecords returns the fixture corpus as records.
func BugRecords() []model.Record {
	recs := make([]model.Record, 0, len(BugRows))
	for _, row := range BugRows {
		rec := make(model.Record, len(BugHeader))
		for i, col := range BugHeader {
			rec[col] = row[i]
		}
		recs = append(recs, rec)
	}
	return recs
}

// WriteCSV writes header and rows to dir/name and returns the path.
func WriteCSV(t *testing.T, dir, name string, header []string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err, "Failed to create CSV fixture")
	defer func() {
		if err := f.Close(); err != nil {
			t.Logf("Failed to close CSV fixture: %v", err)
		}
	}()

	w := csv.NewWriter(f)
	require.NoError(t, w.Write(header))
	require.NoError(t, w.WriteAll(rows))
	return path
}

// WriteBugCSV writes the fixture corpus to dir and returns its path.
func WriteBugCSV(t *testing.T, dir string) string {
	t.Helper()
	return WriteCSV(t, dir, "bugs.csv", BugHeader, BugRows)
}

// TestConfig returns a default configuration whose paths live under a
// per-test temporary directory. Run history is disabled.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.BugFile = filepath.Join(dir, "bugs.csv")
	cfg.Paths.KeywordFile = filepath.Join(dir, "keywords.csv")
	cfg.Paths.ReportDir = filepath.Join(dir, "reports")
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.ResultsDB = ""
	cfg.Paths.BugSaveFile = filepath.Join(dir, "reports", "BugReport.xlsx")
	return cfg
}

// CreateTestEngine creates an engine over TestConfig with a quiet logger.
func CreateTestEngine(t *testing.T, cfg *config.Config, opts ...engine.Option) *engine.Engine {
	t.Helper()
	if cfg == nil {
		cfg = TestConfig(t)
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)

	opts = append([]engine.Option{engine.WithLogger(logrus.NewEntry(logger))}, opts...)
	eng, err := engine.New(cfg, opts...)
	require.NoError(t, err, "Failed to create test engine")
	return eng
}

// CreateIndexedEngine creates an engine and builds an index from the fixture corpus.
func CreateIndexedEngine(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	cfg := TestConfig(t)
	WriteBugCSV(t, filepath.Dir(cfg.Paths.BugFile))
	eng := CreateTestEngine(t, cfg, opts...)

	_, err := eng.RebuildIndex(context.Background(), "")
	require.NoError(t, err, "Failed to build fixture index")
	return eng
}

// SearchTestCase represents a test case for search operations
type SearchTestCase struct {
	Name          string
	Query         string
	Field         string
	ExpectedIDs   []int
	ExpectedTotal int
}

// RunSearchTests runs a suite of search tests against an engine
func RunSearchTests(t *testing.T, eng *engine.Engine, tests []SearchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			res, err := eng.Search(context.Background(), tt.Query, tt.Field, 0)
			require.NoError(t, err, "Search should not fail")

			assert.Equal(t, tt.ExpectedTotal, res.Total, "Result count should match")
			ids := make([]int, 0, len(res.Hits))
			for _, h := range res.Hits {
				ids = append(ids, h.DocID)
			}
			assert.Equal(t, tt.ExpectedIDs, ids, "Matched documents should match")
		})
	}
}
