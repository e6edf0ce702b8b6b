package stats

import (
	"strings"

	"github.com/gcbaptista/go-bug-analysis/index"
	"github.com/gcbaptista/go-bug-analysis/internal/search"
	"github.com/gcbaptista/go-bug-analysis/model"
)

// Coverage walks terms in the given order and records, for each one, how many
// documents it covers that no earlier term covered, plus the cumulative share of the
// corpus covered so far. Every term is resolved with an exact term query limited to
// the corpus size. Terms unknown to the field produce a row with zero counts.
// For an empty corpus the cumulative coverage is 0.
func Coverage(idx *index.CorpusIndex, field string, terms []string) model.CoverageReport {
	total := idx.DocumentCount()
	if total < 0 {
		total = 0
	}
	report := model.CoverageReport{
		Field:     field,
		TotalDocs: total,
		Rows:      make([]model.CoverageRow, 0, len(terms)),
	}

	covered := make([]bool, total)
	coveredCount := 0
	for i, term := range terms {
		newly := 0
		for _, docID := range search.TermQuery(idx, field, term, total) {
			if !covered[docID] {
				covered[docID] = true
				newly++
			}
		}
		coveredCount += newly

		df := idx.TermDocFrequency(field, term)
		if df < 0 {
			df = 0
		}
		ratio := 0.0
		if total > 0 {
			ratio = float64(coveredCount) / float64(total)
		}
		report.Rows = append(report.Rows, model.CoverageRow{
			Rank:               i + 1,
			Term:               term,
			DocFrequency:       df,
			NewlyCovered:       newly,
			CumulativeCoverage: ratio,
		})
	}
	return report
}

// TermDistribution traces coverage over the whole vocabulary of field, most frequent term first.
func TermDistribution(idx *index.CorpusIndex, field string) model.CoverageReport {
	return Coverage(idx, field, Terms(AllTermsSorted(idx, field)))
}

// KeywordSummary lowercases keywords, keeps those indexed in field, orders them by
// document frequency and traces their coverage.
func KeywordSummary(idx *index.CorpusIndex, field string, keywords []string) model.CoverageReport {
	return Coverage(idx, field, Terms(TermsSorted(idx, field, NormalizeKeywords(keywords))))
}

// KeywordLabels labels every document whose title contains a keyword, case-insensitively.
// One hit is produced per (document, distinct keyword) pair, documents in id order and
// keywords in input order.
func KeywordLabels(docs []model.Document, idField, titleField string, keywords []string) []model.KeywordHit {
	normalized := NormalizeKeywords(keywords)
	hits := make([]model.KeywordHit, 0)
	for _, doc := range docs {
		title := doc.Field(titleField)
		lowerTitle := strings.ToLower(title)
		if lowerTitle == "" {
			continue
		}
		for _, kw := range normalized {
			if strings.Contains(lowerTitle, kw) {
				hits = append(hits, model.KeywordHit{
					DocID:   doc.ID,
					ID:      doc.Field(idField),
					Title:   title,
					Keyword: kw,
				})
			}
		}
	}
	return hits
}

// NormalizeKeywords trims and lowercases keywords, dropping blanks and duplicates
// while keeping first-seen order.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
