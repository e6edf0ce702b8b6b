package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	internalErrors "github.com/gcbaptista/go-bug-analysis/internal/errors"
	"github.com/gcbaptista/go-bug-analysis/internal/indexing"
	"github.com/gcbaptista/go-bug-analysis/model"
)

// IndexStatus describes the current generation.
type IndexStatus struct {
	Built      bool      `json:"built"`
	Generation uint64    `json:"generation"`
	Documents  int       `json:"documents"`
	Fields     []string  `json:"fields"`
	BuiltAt    time.Time `json:"built_at,omitempty"`
}

// RebuildIndex reads every record of path and replaces the index with a new
// generation. Rebuilding from the same file twice yields identical statistics.
// An empty path uses the configured bug file.
func (e *Engine) RebuildIndex(ctx context.Context, path string) (*indexing.Snapshot, error) {
	if path == "" {
		path = e.cfg.Paths.BugFile
	}
	recs, _, err := e.source.ReadRecords(path)
	if err != nil {
		e.observeRebuild("failed", time.Now(), nil)
		return nil, fmt.Errorf("failed to read records from %s: %w", path, err)
	}
	e.logger.WithFields(logrus.Fields{"path": path, "records": len(recs)}).Info("Records loaded")
	return e.RebuildFromRecords(ctx, recs)
}

// RebuildFromRecords replaces the index with a generation built from recs.
func (e *Engine) RebuildFromRecords(ctx context.Context, recs []model.Record) (*indexing.Snapshot, error) {
	started := time.Now()
	snap, err := e.indexer.Rebuild(ctx, recs, e.settings.IndexedFields)
	if err != nil {
		status := "failed"
		if errors.Is(err, internalErrors.ErrRebuildInProgress) {
			status = "rejected"
		}
		e.observeRebuild(status, started, nil)
		e.logger.WithError(err).WithField("status", status).Error("Index rebuild failed")
		return nil, err
	}

	e.observeRebuild("success", started, snap)
	e.logger.WithFields(logrus.Fields{
		"generation": snap.Generation(),
		"documents":  snap.Store.Len(),
		"fields":     snap.Fields,
		"duration":   time.Since(started),
	}).Info("Index rebuilt")
	return snap, nil
}

func (e *Engine) observeRebuild(status string, started time.Time, snap *indexing.Snapshot) {
	if e.metrics == nil {
		return
	}
	if snap == nil {
		e.metrics.ObserveRebuild(status, time.Since(started), 0, 0)
		return
	}
	e.metrics.ObserveRebuild(status, time.Since(started), snap.Store.Len(), snap.Generation())
}

// ClearIndex drops the current generation from memory.
func (e *Engine) ClearIndex() {
	e.indexer.Clear()
	e.logger.Info("Index cleared")
}

// Status reports the current generation, if any.
func (e *Engine) Status() IndexStatus {
	snap, err := e.snapshot()
	if err != nil {
		return IndexStatus{Generation: e.indexer.Generation(), Fields: []string{}}
	}
	return IndexStatus{
		Built:      true,
		Generation: snap.Generation(),
		Documents:  snap.Store.Len(),
		Fields:     snap.Fields,
		BuiltAt:    snap.BuiltAt,
	}
}

// DocumentCount returns the number of indexed documents, or -1 when no index is built.
func (e *Engine) DocumentCount() int {
	snap, err := e.snapshot()
	if err != nil {
		return -1
	}
	return snap.Index.DocumentCount()
}

// TermDocFrequency returns the number of documents containing term in field, or -1.
func (e *Engine) TermDocFrequency(field, term string) int {
	snap, err := e.snapshot()
	if err != nil {
		return -1
	}
	return snap.Index.TermDocFrequency(field, term)
}

// DocumentTermFrequency returns the frequency of term in one document, or -1.
func (e *Engine) DocumentTermFrequency(docID int, field, term string) int {
	snap, err := e.snapshot()
	if err != nil {
		return -1
	}
	return snap.Index.DocumentTermFrequency(docID, field, term)
}

// Document returns a stored document of the current generation.
func (e *Engine) Document(docID int) (model.Document, error) {
	snap, err := e.snapshot()
	if err != nil {
		return model.Document{}, err
	}
	doc, ok := snap.Store.Get(docID)
	if !ok {
		return model.Document{}, internalErrors.NewValidationError("doc_id", fmt.Sprintf("document %d does not exist", docID))
	}
	return doc, nil
}
