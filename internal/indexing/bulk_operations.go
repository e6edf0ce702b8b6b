package indexing

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-bug-analysis/model"
	"github.com/gcbaptista/go-bug-analysis/services"
)

// BulkIndexingConfig contains configuration for the parallel tokenization stage of a rebuild
type BulkIndexingConfig struct {
	BatchSize        int // Number of records tokenized by one worker task
	WorkerCount      int // Number of parallel workers
	ProgressCallback func(batchEnd, total int) // Called from worker goroutines when a batch finishes
}

// DefaultBulkIndexingConfig returns sensible defaults for bulk tokenization
func DefaultBulkIndexingConfig() BulkIndexingConfig {
	return BulkIndexingConfig{
		BatchSize:   500,
		WorkerCount: runtime.NumCPU(),
	}
}

func (c BulkIndexingConfig) normalized() BulkIndexingConfig {
	if c.BatchSize <= 0 {
		c.BatchSize = 500
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 1
	}
	return c
}

// tokenizedRecord holds the tokens of every indexed field of one record, aligned with the field list.
type tokenizedRecord [][]string

// tokenizeRecords tokenizes every (record, field) pair in parallel batches.
// The output is aligned with records, so document ids stay equal to ingestion order
// regardless of which worker handled a batch.
func tokenizeRecords(ctx context.Context, records []model.Record, fields []string, tok services.Tokenizer, cfg BulkIndexingConfig) ([]tokenizedRecord, error) {
	cfg = cfg.normalized()
	out := make([]tokenizedRecord, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.WorkerCount)

	for start := 0; start < len(records); start += cfg.BatchSize {
		end := start + cfg.BatchSize
		if end > len(records) {
			end = len(records)
		}
		start, end := start, end
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				row := make(tokenizedRecord, len(fields))
				for j, field := range fields {
					value := records[i].Get(field)
					if value == "" {
						continue
					}
					row[j] = tok.Tokenize(value)
				}
				out[i] = row
			}
			if cfg.ProgressCallback != nil {
				cfg.ProgressCallback(end, len(records))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
