package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/go-bug-analysis/config"
	"github.com/gcbaptista/go-bug-analysis/internal/indexing"
	"github.com/gcbaptista/go-bug-analysis/internal/metrics"
	"github.com/gcbaptista/go-bug-analysis/internal/records"
	"github.com/gcbaptista/go-bug-analysis/internal/tokenizer"
	"github.com/gcbaptista/go-bug-analysis/model"
	"github.com/gcbaptista/go-bug-analysis/services"
)

// Engine orchestrates the corpus index and every analysis run over it.
// All analyses read one stable snapshot and may run concurrently with each other
// and with a rebuild.
type Engine struct {
	cfg       *config.Config
	settings  config.AnalysisSettings
	logger    *logrus.Entry
	tokenizer *tokenizer.Tokenizer
	indexer   *indexing.Service

	source   services.RecordSource
	keywords services.KeywordSource
	metrics  *metrics.Metrics
	runs     services.RunRecorder
	persist  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger; defaults to the standard logrus logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithRunRecorder stores a history entry for every analysis.
func WithRunRecorder(r services.RunRecorder) Option {
	return func(e *Engine) { e.runs = r }
}

// WithRecordSource overrides the tabular reader used by RebuildIndex and LoadKeywords.
func WithRecordSource(src services.RecordSource, kw services.KeywordSource) Option {
	return func(e *Engine) {
		e.source = src
		e.keywords = kw
	}
}

// WithoutPersistence keeps the index in memory only.
func WithoutPersistence() Option {
	return func(e *Engine) { e.persist = false }
}

// New creates an engine for cfg. The index starts empty; call RebuildIndex or
// LoadSnapshot before querying.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	reader := records.NewReader()
	e := &Engine{
		cfg:      cfg,
		settings: cfg.Analysis,
		logger:   logrus.WithField("component", "engine"),
		source:   reader,
		keywords: reader,
		persist:  true,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.tokenizer = tokenizer.New(tokenizer.Options{
		StopWords: e.settings.StopWords,
		Stemming:  e.settings.Stemming,
	})

	indexOpts := []indexing.Option{}
	if e.persist {
		indexOpts = append(indexOpts, indexing.WithCommit(e.saveSnapshot))
	}
	indexer, err := indexing.NewService(e.tokenizer, indexOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexer: %w", err)
	}
	e.indexer = indexer
	return e, nil
}

// Settings returns a copy of the analysis settings.
func (e *Engine) Settings() config.AnalysisSettings {
	return e.settings
}

// snapshot returns the current generation or ErrIndexNotBuilt.
func (e *Engine) snapshot() (*indexing.Snapshot, error) {
	return e.indexer.Current()
}

// fieldOr returns field, or the configured subject field when field is empty.
func (e *Engine) fieldOr(field string) string {
	if field == "" {
		return e.settings.SubjectField
	}
	return field
}

// observe records metrics and run history for a finished analysis. Run history is
// best effort: a failing store is logged, the analysis result is still returned.
func (e *Engine) observe(ctx context.Context, op, field string, snap *indexing.Snapshot, started time.Time, summary string) {
	elapsed := time.Since(started)
	if e.metrics != nil {
		e.metrics.ObserveAnalysis(op, elapsed)
	}
	e.logger.WithFields(logrus.Fields{
		"operation":  op,
		"field":      field,
		"generation": snap.Generation(),
		"duration":   elapsed,
	}).Debug("Analysis finished")

	if e.runs == nil {
		return
	}
	run := model.AnalysisRun{
		ID:         uuid.New().String(),
		Operation:  op,
		Field:      field,
		Generation: snap.Generation(),
		Documents:  snap.Store.Len(),
		Summary:    summary,
		StartedAt:  started,
		Duration:   elapsed,
	}
	if err := e.runs.RecordRun(ctx, run); err != nil {
		e.logger.WithError(err).WithField("operation", op).Warn("Failed to record analysis run")
	}
}

// Runs lists the most recent analysis runs, newest first.
func (e *Engine) Runs(ctx context.Context, limit int) ([]model.AnalysisRun, error) {
	if e.runs == nil {
		return []model.AnalysisRun{}, nil
	}
	return e.runs.ListRuns(ctx, limit)
}
