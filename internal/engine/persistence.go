package engine

import (
	"errors"
	"os"

	internalErrors "github.com/gcbaptista/go-bug-analysis/internal/errors"
	"github.com/gcbaptista/go-bug-analysis/internal/indexing"
	"github.com/gcbaptista/go-bug-analysis/internal/persistence"
)

// saveSnapshot is the indexer commit hook: the snapshot reaches disk before it
// becomes visible, so a storage failure keeps the previous generation current.
func (e *Engine) saveSnapshot(snap *indexing.Snapshot) error {
	path := e.cfg.Paths.SnapshotPath()
	if err := persistence.SaveGob(path, snap); err != nil {
		return internalErrors.NewStorageError("save", path, err)
	}
	e.logger.WithField("path", path).WithField("generation", snap.Generation()).Info("Index snapshot saved")
	return nil
}

// LoadSnapshot restores the last saved generation. It reports false, without
// error, when no snapshot exists yet.
func (e *Engine) LoadSnapshot() (bool, error) {
	path := e.cfg.Paths.SnapshotPath()
	snap := &indexing.Snapshot{}
	if err := persistence.LoadGob(path, snap); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			e.logger.WithField("path", path).Info("No index snapshot found, starting empty")
			return false, nil
		}
		return false, internalErrors.NewStorageError("load", path, err)
	}
	if err := e.indexer.Restore(snap); err != nil {
		return false, err
	}
	if e.metrics != nil {
		e.metrics.DocumentsIndexed.Set(float64(snap.Store.Len()))
		e.metrics.IndexGeneration.Set(float64(snap.Generation()))
	}
	e.logger.WithField("generation", snap.Generation()).WithField("documents", snap.Store.Len()).Info("Index snapshot loaded")
	return true, nil
}
