package indexing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/go-bug-analysis/internal/errors"
	"github.com/gcbaptista/go-bug-analysis/internal/tokenizer"
	"github.com/gcbaptista/go-bug-analysis/model"
)

func sampleRecords() []model.Record {
	return []model.Record{
		{"Ticket Id": "1", "Subject": "login error", "Category": "user"},
		{"Ticket Id": "2", "Subject": "login success", "Category": "user"},
		{"Ticket Id": "3", "Subject": "payment error", "Category": "error"},
	}
}

func TestNewService(t *testing.T) {
	t.Run("valid initialization", func(t *testing.T) {
		_, err := NewService(tokenizer.Default)
		if err != nil {
			t.Errorf("NewService() error = %v, wantErr nil", err)
		}
	})

	t.Run("nil tokenizer", func(t *testing.T) {
		_, err := NewService(nil)
		if err == nil {
			t.Error("NewService() with nil tokenizer, wantErr, got nil")
		}
	})
}

func TestBuild(t *testing.T) {
	snap, err := Build(context.Background(), sampleRecords(), []string{"Subject"}, tokenizer.Default, 1, DefaultBulkIndexingConfig())
	require.NoError(t, err)

	idx := snap.Index
	assert.Equal(t, 3, idx.DocumentCount())
	assert.Equal(t, 2, idx.TermDocFrequency("Subject", "login"))
	assert.Equal(t, 2, idx.TermDocFrequency("Subject", "error"))
	assert.Equal(t, 1, idx.TermDocFrequency("Subject", "success"))
	assert.Equal(t, 1, idx.TermDocFrequency("Subject", "payment"))
	assert.Equal(t, -1, idx.TermDocFrequency("Category", "user"), "non-indexed field")
	assert.Equal(t, []string{"Subject"}, snap.Fields)

	doc, ok := snap.Store.Get(2)
	require.True(t, ok)
	assert.Equal(t, "payment error", doc.Field("Subject"))
}

func TestBuildAllFieldsAndEmptyValues(t *testing.T) {
	records := []model.Record{
		{"Subject": "crash on save", "Summary": ""},
		{"Subject": "", "Summary": "editor crash"},
		{},
	}
	snap, err := Build(context.Background(), records, nil, tokenizer.Default, 1, BulkIndexingConfig{BatchSize: 1, WorkerCount: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"Subject", "Summary"}, snap.Fields)
	assert.Equal(t, 3, snap.Index.DocumentCount(), "records without values are still documents")
	assert.Equal(t, 1, snap.Index.TermDocFrequency("Subject", "crash"))
	assert.Equal(t, 1, snap.Index.TermDocFrequency("Summary", "crash"))
	assert.Nil(t, snap.Index.Field("Subject").DocTerms(1), "empty value contributes no terms")
}

func TestBuildPreservesIngestionOrderAcrossWorkers(t *testing.T) {
	records := make([]model.Record, 0, 50)
	for i := 0; i < 50; i++ {
		records = append(records, model.Record{"Subject": fmt.Sprintf("term%d", i)})
	}
	snap, err := Build(context.Background(), records, []string{"Subject"}, tokenizer.Default, 1, BulkIndexingConfig{BatchSize: 3, WorkerCount: 4})
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		assert.Equal(t, 1, snap.Index.DocumentTermFrequency(i, "Subject", fmt.Sprintf("term%d", i)))
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, sampleRecords(), nil, tokenizer.Default, 1, DefaultBulkIndexingConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestServiceCurrentBeforeBuild(t *testing.T) {
	svc, err := NewService(tokenizer.Default)
	require.NoError(t, err)

	_, err = svc.Current()
	assert.True(t, errors.Is(err, internalErrors.ErrIndexNotBuilt))
}

func TestServiceRebuildIsIdempotent(t *testing.T) {
	svc, err := NewService(tokenizer.Default)
	require.NoError(t, err)

	first, err := svc.Rebuild(context.Background(), sampleRecords(), []string{"Subject"})
	require.NoError(t, err)
	second, err := svc.Rebuild(context.Background(), sampleRecords(), []string{"Subject"})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first.Generation())
	assert.Equal(t, uint64(2), second.Generation())
	assert.Equal(t, first.Index.DocumentCount(), second.Index.DocumentCount())
	for _, term := range first.Index.Field("Subject").Terms() {
		assert.Equal(t, first.Index.TermDocFrequency("Subject", term), second.Index.TermDocFrequency("Subject", term), term)
	}

	current, err := svc.Current()
	require.NoError(t, err)
	assert.Same(t, second, current)
}

func TestServiceCommitFailureKeepsPreviousGeneration(t *testing.T) {
	fail := false
	svc, err := NewService(tokenizer.Default, WithCommit(func(*Snapshot) error {
		if fail {
			return errors.New("disk full")
		}
		return nil
	}))
	require.NoError(t, err)

	first, err := svc.Rebuild(context.Background(), sampleRecords(), nil)
	require.NoError(t, err)

	fail = true
	_, err = svc.Rebuild(context.Background(), []model.Record{{"Subject": "other"}}, nil)
	require.Error(t, err)

	current, err := svc.Current()
	require.NoError(t, err)
	assert.Same(t, first, current)
	assert.Equal(t, 3, current.Index.DocumentCount())
}

func TestServiceRejectsConcurrentRebuild(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	svc, err := NewService(tokenizer.Default, WithCommit(func(*Snapshot) error {
		close(entered)
		<-release
		return nil
	}))
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Rebuild(context.Background(), sampleRecords(), nil)
		assert.NoError(t, err)
	}()

	<-entered
	_, err = svc.Rebuild(context.Background(), sampleRecords(), nil)
	assert.True(t, errors.Is(err, internalErrors.ErrRebuildInProgress))

	_, err = svc.Current()
	assert.True(t, errors.Is(err, internalErrors.ErrIndexNotBuilt), "readers never see a half-committed generation")

	close(release)
	wg.Wait()

	snap, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), snap.Generation())
}

func TestServiceClearAndRestore(t *testing.T) {
	svc, err := NewService(tokenizer.Default)
	require.NoError(t, err)

	snap, err := svc.Rebuild(context.Background(), sampleRecords(), nil)
	require.NoError(t, err)

	svc.Clear()
	_, err = svc.Current()
	assert.True(t, errors.Is(err, internalErrors.ErrIndexNotBuilt))

	require.NoError(t, svc.Restore(snap))
	current, err := svc.Current()
	require.NoError(t, err)
	assert.Same(t, snap, current)

	next, err := svc.Rebuild(context.Background(), sampleRecords(), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), next.Generation())

	assert.Error(t, svc.Restore(&Snapshot{}))
}
