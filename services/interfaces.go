package services

import (
	"context"

	"github.com/gcbaptista/go-bug-analysis/model"
)

// Tokenizer turns field text into terms. Implementations must be deterministic
// and safe for concurrent use.
type Tokenizer interface {
	Tokenize(text string) []string
}

// RecordSource yields the rows of a tabular file together with the column names
// seen, in first-seen order.
type RecordSource interface {
	ReadRecords(path string) ([]model.Record, []string, error)
}

// KeywordSource reads a single column of a tabular file, e.g. a keyword list.
type KeywordSource interface {
	ReadColumn(path, sheet string, column int) ([]string, error)
}

// ReportSink persists a textual report.
type ReportSink interface {
	WriteText(content, path string, overwrite bool) error
}

// SheetSink persists tabular report rows into a named sheet of a workbook.
type SheetSink interface {
	WriteSheet(path, sheet string, rows [][]string) error
}

// Classifier predicts a label for free text after being trained on labelled documents.
type Classifier interface {
	Train(docs []model.Document, textField, labelField string) error
	Predict(text string) (string, error)
}

// RunRecorder stores the history of analysis runs.
type RunRecorder interface {
	RecordRun(ctx context.Context, run model.AnalysisRun) error
	ListRuns(ctx context.Context, limit int) ([]model.AnalysisRun, error)
}
