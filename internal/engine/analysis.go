package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gcbaptista/go-bug-analysis/internal/classify"
	"github.com/gcbaptista/go-bug-analysis/internal/cooccurrence"
	"github.com/gcbaptista/go-bug-analysis/internal/search"
	"github.com/gcbaptista/go-bug-analysis/internal/stats"
	"github.com/gcbaptista/go-bug-analysis/internal/vector"
	"github.com/gcbaptista/go-bug-analysis/model"
)

// Operation names used for metrics labels and run history.
const (
	OpAllTerms         = "all_terms"
	OpTopTerms         = "top_terms"
	OpCoverage         = "coverage"
	OpTermDistribution = "term_distribution"
	OpKeywordSummary   = "keyword_summary"
	OpKeywordLabels    = "keyword_labels"
	OpSearch           = "search"
	OpSimilarity       = "similarity"
	OpTFIDF            = "tfidf_model"
	OpCooccurrence     = "cooccurrence"
	OpEvaluate         = "evaluate"
)

// AllTermsSorted lists every term of field by document frequency.
func (e *Engine) AllTermsSorted(ctx context.Context, field string) ([]model.TermFrequency, error) {
	snap, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	started := time.Now()
	field = e.fieldOr(field)
	terms := stats.AllTermsSorted(snap.Index, field)
	e.observe(ctx, OpAllTerms, field, snap, started, fmt.Sprintf("%d terms", len(terms)))
	return terms, nil
}

// TopTerms selects the most frequent terms of field. cutoff < 0 and n == 0 fall
// back to the configured values.
func (e *Engine) TopTerms(ctx context.Context, field string, cutoff float64, n int) ([]model.TermFrequency, error) {
	snap, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	started := time.Now()
	field = e.fieldOr(field)
	if cutoff < 0 {
		cutoff = e.settings.Cutoff()
	}
	if n == 0 {
		n = e.settings.TopN
	}
	top := stats.TopTerms(snap.Index, cutoff, field, n)
	e.observe(ctx, OpTopTerms, field, snap, started, fmt.Sprintf("%d of top %d terms at cutoff %.3f", len(top), n, cutoff))
	return top, nil
}

// Coverage traces the coverage of terms in the given order.
func (e *Engine) Coverage(ctx context.Context, field string, terms []string) (model.CoverageReport, error) {
	snap, err := e.snapshot()
	if err != nil {
		return model.CoverageReport{}, err
	}
	started := time.Now()
	field = e.fieldOr(field)
	report := stats.Coverage(snap.Index, field, e.queryTerms(terms))
	e.observe(ctx, OpCoverage, field, snap, started, fmt.Sprintf("%d terms cover %.3f", len(report.Rows), report.Final()))
	return report, nil
}

// TermDistribution traces coverage over the whole vocabulary of field.
func (e *Engine) TermDistribution(ctx context.Context, field string) (model.CoverageReport, error) {
	snap, err := e.snapshot()
	if err != nil {
		return model.CoverageReport{}, err
	}
	started := time.Now()
	field = e.fieldOr(field)
	report := stats.TermDistribution(snap.Index, field)
	e.observe(ctx, OpTermDistribution, field, snap, started, fmt.Sprintf("%d terms", len(report.Rows)))
	return report, nil
}

// LoadKeywords reads the keyword list (first column of the first sheet). An empty
// path uses the configured keyword file.
func (e *Engine) LoadKeywords(path string) ([]string, error) {
	if path == "" {
		path = e.cfg.Paths.KeywordFile
	}
	keywords, err := e.keywords.ReadColumn(path, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read keywords from %s: %w", path, err)
	}
	return keywords, nil
}

// KeywordSummary orders the indexed keywords by frequency and traces their coverage.
// Keywords go through the index tokenizer so they match stemmed terms.
func (e *Engine) KeywordSummary(ctx context.Context, field string, keywords []string) (model.CoverageReport, error) {
	snap, err := e.snapshot()
	if err != nil {
		return model.CoverageReport{}, err
	}
	started := time.Now()
	field = e.fieldOr(field)
	report := stats.KeywordSummary(snap.Index, field, e.queryTerms(keywords))
	e.observe(ctx, OpKeywordSummary, field, snap, started, fmt.Sprintf("%d of %d keywords cover %.3f", len(report.Rows), len(keywords), report.Final()))
	return report, nil
}

// KeywordLabels labels every document whose subject contains a keyword.
func (e *Engine) KeywordLabels(ctx context.Context, keywords []string) ([]model.KeywordHit, error) {
	snap, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	started := time.Now()
	field := e.settings.SubjectField
	hits := stats.KeywordLabels(snap.Store.Docs, e.settings.IDField, field, keywords)
	e.observe(ctx, OpKeywordLabels, field, snap, started, fmt.Sprintf("%d hits", len(hits)))
	return hits, nil
}

// Search runs a boolean query with field as the default field. Each hit carries
// the configured display fields. limit <= 0 uses the configured search limit.
func (e *Engine) Search(ctx context.Context, query, field string, limit int) (model.SearchResult, error) {
	snap, err := e.snapshot()
	if err != nil {
		return model.SearchResult{}, err
	}
	started := time.Now()
	field = e.fieldOr(field)
	if limit <= 0 {
		limit = e.settings.SearchLimit
	}

	svc, err := search.NewService(snap.Index, e.tokenizer, field)
	if err != nil {
		return model.SearchResult{}, err
	}
	res, err := svc.Search(query, limit)
	if err != nil {
		return model.SearchResult{}, err
	}
	for i := range res.Hits {
		res.Hits[i].Fields = snap.Store.Project(res.Hits[i].DocID, e.settings.DisplayFields)
	}
	e.observe(ctx, OpSearch, field, snap, started, fmt.Sprintf("%q matched %d", query, res.Total))
	return res, nil
}

// TopTermSearch searches with an OR query over every term passing the cutoff.
func (e *Engine) TopTermSearch(ctx context.Context, field string, cutoff float64) (model.SearchResult, error) {
	snap, err := e.snapshot()
	if err != nil {
		return model.SearchResult{}, err
	}
	field = e.fieldOr(field)
	if cutoff < 0 {
		cutoff = e.settings.Cutoff()
	}
	query := stats.TopTermQuery(snap.Index, cutoff, field)
	if query == "" {
		return model.SearchResult{Query: query, Field: field, Hits: []model.SearchHit{}, Generation: snap.Generation()}, nil
	}
	return e.Search(ctx, query, field, 0)
}

// FirstMatch returns the id of the first document matching query, or -1.
func (e *Engine) FirstMatch(query, field string) (int, error) {
	snap, err := e.snapshot()
	if err != nil {
		return -1, err
	}
	svc, err := search.NewService(snap.Index, e.tokenizer, e.fieldOr(field))
	if err != nil {
		return -1, err
	}
	return svc.FirstMatch(query)
}

// DocumentSimilarity compares the first docNum documents pairwise. docNum == 0
// uses the configured count.
func (e *Engine) DocumentSimilarity(ctx context.Context, field string, docNum int, w vector.Weighting) (*vector.SimilarityResult, error) {
	snap, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	started := time.Now()
	field = e.fieldOr(field)
	if docNum == 0 {
		docNum = e.settings.SimilarityDocs
	}
	res, err := vector.DocumentSimilarity(snap.Index, field, docNum, w)
	if err != nil {
		return nil, err
	}
	e.observe(ctx, OpSimilarity, field, snap, started, fmt.Sprintf("%d documents, %s weighting", len(res.DocIDs), w))
	return res, nil
}

// PairSimilarity is the cosine similarity of two documents.
func (e *Engine) PairSimilarity(field string, a, b int, w vector.Weighting) (float64, error) {
	snap, err := e.snapshot()
	if err != nil {
		return 0, err
	}
	return vector.PairSimilarity(snap.Index, e.fieldOr(field), a, b, w)
}

// TFIDFModel builds the TF-IDF model of the first maxDocs documents. An empty
// field uses the summary field, maxDocs == 0 the configured count.
func (e *Engine) TFIDFModel(ctx context.Context, field string, maxDocs int) (*vector.Model, error) {
	snap, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	started := time.Now()
	if field == "" {
		field = e.settings.SummaryField
	}
	if maxDocs == 0 {
		maxDocs = e.settings.TFIDFDocs
	}
	m := vector.BuildModel(snap.Index, field, maxDocs)
	e.observe(ctx, OpTFIDF, field, snap, started, fmt.Sprintf("%d documents x %d terms", len(m.DocIDs), m.Positions.Len()))
	return m, nil
}

// Cooccurrence counts co-occurrences of terms. nil terms means the top
// PairwiseTopN terms of field, as selected by TopTerms with the configured cutoff.
func (e *Engine) Cooccurrence(ctx context.Context, field string, terms []string) (*cooccurrence.Matrix, error) {
	snap, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	started := time.Now()
	field = e.fieldOr(field)
	if terms == nil {
		terms = stats.Terms(stats.TopTerms(snap.Index, e.settings.Cutoff(), field, e.settings.PairwiseTopN))
	} else {
		terms = e.queryTerms(terms)
	}
	m := cooccurrence.Analyze(snap.Index, field, terms, cooccurrence.Options{Symmetric: e.settings.CooccurrenceSymmetric})
	e.observe(ctx, OpCooccurrence, field, snap, started, fmt.Sprintf("%d terms", m.Size()))
	return m, nil
}

// Evaluate trains a naive Bayes classifier on the summary and label fields of the
// current generation and evaluates it on the same documents. Empty labels use the
// configured categories.
func (e *Engine) Evaluate(ctx context.Context, labels []string) (*classify.Evaluation, error) {
	snap, err := e.snapshot()
	if err != nil {
		return nil, err
	}
	started := time.Now()
	if len(labels) == 0 {
		labels = e.settings.Categories
	}

	nb := classify.NewNaiveBayes(e.tokenizer, 1)
	if err := nb.Train(snap.Store.Docs, e.settings.SummaryField, e.settings.LabelField); err != nil {
		return nil, fmt.Errorf("failed to train classifier: %w", err)
	}
	ev, err := classify.Evaluate(labels, snap.Store.Docs, e.settings.LabelField, e.settings.SummaryField, nb)
	if err != nil {
		return nil, err
	}
	e.observe(ctx, OpEvaluate, e.settings.SummaryField, snap, started,
		fmt.Sprintf("accuracy %.3f over %d, %d excluded", ev.Accuracy, ev.Total, ev.Excluded))
	return ev, nil
}

// NormalizeTerm maps a caller-supplied word onto the index vocabulary. A word the
// tokenizer rejects (a stop word, or one that splits into several tokens such as
// "e-mail") comes back trimmed and lowercased, so it is reported as a term that
// matches nothing rather than vanishing. A blank word yields "".
func (e *Engine) NormalizeTerm(word string) string {
	if term := e.tokenizer.Term(word); term != "" {
		return term
	}
	return strings.ToLower(strings.TrimSpace(word))
}

// queryTerms normalizes words with NormalizeTerm, dropping blanks. Each word keeps
// its own position so coverage and co-occurrence emit a zero row for it.
func (e *Engine) queryTerms(words []string) []string {
	terms := make([]string, 0, len(words))
	var rejected []string
	for _, w := range words {
		term := e.tokenizer.Term(w)
		if term == "" {
			if term = strings.ToLower(strings.TrimSpace(w)); term == "" {
				continue
			}
			rejected = append(rejected, term)
		}
		terms = append(terms, term)
	}
	if len(rejected) > 0 {
		e.logger.WithField("terms", rejected).Debug("Terms not produced by the tokenizer match no document")
	}
	return terms
}
