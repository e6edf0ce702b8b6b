package indexing

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gcbaptista/go-bug-analysis/index"
	internalErrors "github.com/gcbaptista/go-bug-analysis/internal/errors"
	"github.com/gcbaptista/go-bug-analysis/model"
	"github.com/gcbaptista/go-bug-analysis/services"
	"github.com/gcbaptista/go-bug-analysis/store"
)

// Snapshot is one immutable generation of the corpus: the index and the records it was built from.
type Snapshot struct {
	Index   *index.CorpusIndex
	Store   *store.DocumentStore
	Fields  []string // indexed fields, sorted
	BuiltAt time.Time
}

// Generation returns the generation number of the snapshot.
func (s *Snapshot) Generation() uint64 {
	return s.Index.Generation
}

// CommitFunc is called with a freshly built snapshot before it becomes visible.
// Returning an error aborts the rebuild and keeps the previous generation.
type CommitFunc func(snap *Snapshot) error

// Build tokenizes records and builds a snapshot for the given generation.
// When fields is empty every column present in the records is indexed.
// Empty or missing values contribute nothing to any statistic.
func Build(ctx context.Context, records []model.Record, fields []string, tok services.Tokenizer, generation uint64, cfg BulkIndexingConfig) (*Snapshot, error) {
	if tok == nil {
		return nil, fmt.Errorf("tokenizer cannot be nil")
	}
	fields = resolveFields(records, fields)

	tokenized, err := tokenizeRecords(ctx, records, fields, tok, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize records: %w", err)
	}

	builder := index.NewBuilder(generation, fields)
	for _, row := range tokenized {
		docID := builder.AddDocument()
		for j, tokens := range row {
			builder.AddField(docID, fields[j], tokens)
		}
	}

	return &Snapshot{
		Index:   builder.Build(),
		Store:   store.NewDocumentStore(records),
		Fields:  fields,
		BuiltAt: time.Now(),
	}, nil
}

// resolveFields returns the sorted, de-duplicated field set to index.
func resolveFields(records []model.Record, fields []string) []string {
	seen := make(map[string]struct{})
	if len(fields) == 0 {
		for _, rec := range records {
			for name := range rec {
				seen[name] = struct{}{}
			}
		}
	} else {
		for _, name := range fields {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Service owns the current snapshot and serializes rebuilds.
// Readers always observe a complete generation: a rebuild is built aside,
// committed, and only then swapped in under the write lock.
type Service struct {
	mu         sync.RWMutex
	current    *Snapshot
	generation uint64

	rebuildMu sync.Mutex // single-writer lock, never waited on

	tokenizer services.Tokenizer
	bulk      BulkIndexingConfig
	commit    CommitFunc
}

// Option configures a Service.
type Option func(*Service)

// WithCommit installs a hook that persists a snapshot before it is swapped in.
func WithCommit(fn CommitFunc) Option {
	return func(s *Service) { s.commit = fn }
}

// WithBulkConfig overrides the tokenization worker settings.
func WithBulkConfig(cfg BulkIndexingConfig) Option {
	return func(s *Service) { s.bulk = cfg }
}

// NewService creates a new indexing Service.
func NewService(tok services.Tokenizer, opts ...Option) (*Service, error) {
	if tok == nil {
		return nil, fmt.Errorf("tokenizer cannot be nil")
	}
	s := &Service{
		tokenizer: tok,
		bulk:      DefaultBulkIndexingConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Rebuild replaces the current generation with one built from records.
// It fails with ErrRebuildInProgress if another rebuild holds the writer lock.
// On any error the previous generation stays current.
func (s *Service) Rebuild(ctx context.Context, records []model.Record, fields []string) (*Snapshot, error) {
	if !s.rebuildMu.TryLock() {
		return nil, internalErrors.ErrRebuildInProgress
	}
	defer s.rebuildMu.Unlock()

	s.mu.RLock()
	next := s.generation + 1
	s.mu.RUnlock()

	snap, err := Build(ctx, records, fields, s.tokenizer, next, s.bulk)
	if err != nil {
		return nil, err
	}

	if s.commit != nil {
		if err := s.commit(snap); err != nil {
			return nil, fmt.Errorf("failed to commit generation %d: %w", next, err)
		}
	}

	s.mu.Lock()
	s.current = snap
	s.generation = next
	s.mu.Unlock()
	return snap, nil
}

// Restore installs a snapshot loaded from storage without running the commit hook.
func (s *Service) Restore(snap *Snapshot) error {
	if snap == nil || snap.Index == nil || snap.Store == nil {
		return fmt.Errorf("cannot restore an incomplete snapshot")
	}
	if !s.rebuildMu.TryLock() {
		return internalErrors.ErrRebuildInProgress
	}
	defer s.rebuildMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = snap
	if snap.Generation() > s.generation {
		s.generation = snap.Generation()
	}
	return nil
}

// Current returns the visible snapshot, or ErrIndexNotBuilt before the first rebuild.
func (s *Service) Current() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, internalErrors.ErrIndexNotBuilt
	}
	return s.current, nil
}

// Clear drops the visible snapshot. The generation counter keeps increasing across clears.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Generation returns the number of the last generation built or restored.
func (s *Service) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}
