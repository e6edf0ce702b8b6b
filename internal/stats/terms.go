// Package stats derives vocabulary statistics from a corpus index: frequency-sorted
// term lists, top-term selection and greedy coverage traces.
package stats

import (
	"sort"
	"strings"

	"github.com/gcbaptista/go-bug-analysis/index"
	"github.com/gcbaptista/go-bug-analysis/model"
)

// AllTermsSorted returns every term of field with its document frequency, sorted by
// frequency descending. Ties are broken lexicographically ascending, so the order is
// reproducible across rebuilds. An unknown field yields an empty list.
func AllTermsSorted(idx *index.CorpusIndex, field string) []model.TermFrequency {
	f := idx.Field(field)
	if f == nil {
		return []model.TermFrequency{}
	}
	out := make([]model.TermFrequency, 0, f.TermCount())
	for _, term := range f.Terms() {
		out = append(out, model.TermFrequency{Term: term, DocFrequency: f.DocFrequency(term)})
	}
	sortByFrequency(out)
	return out
}

// TermsSorted is AllTermsSorted restricted to the given terms. Terms that are not
// indexed in field are dropped; duplicates collapse.
func TermsSorted(idx *index.CorpusIndex, field string, include []string) []model.TermFrequency {
	f := idx.Field(field)
	if f == nil {
		return []model.TermFrequency{}
	}
	seen := make(map[string]struct{}, len(include))
	out := make([]model.TermFrequency, 0, len(include))
	for _, term := range include {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		if df := f.DocFrequency(term); df > 0 {
			out = append(out, model.TermFrequency{Term: term, DocFrequency: df})
		}
	}
	sortByFrequency(out)
	return out
}

func sortByFrequency(terms []model.TermFrequency) {
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].DocFrequency != terms[j].DocFrequency {
			return terms[i].DocFrequency > terms[j].DocFrequency
		}
		return terms[i].Term < terms[j].Term
	})
}

// TopTerms selects a prefix of AllTermsSorted: the most frequent term is always kept,
// and each following term is kept while freq/firstFreq > cutoff and fewer than n terms
// were selected. Selection stops at the first term that fails either condition.
// n <= 0 returns an empty list.
func TopTerms(idx *index.CorpusIndex, cutoff float64, field string, n int) []model.TermFrequency {
	return selectTop(AllTermsSorted(idx, field), cutoff, n)
}

func selectTop(sorted []model.TermFrequency, cutoff float64, n int) []model.TermFrequency {
	top := make([]model.TermFrequency, 0)
	if n <= 0 || len(sorted) == 0 {
		return top
	}
	first := float64(sorted[0].DocFrequency)
	top = append(top, sorted[0])
	for _, tf := range sorted[1:] {
		ratio := float64(tf.DocFrequency) / first
		if ratio > cutoff && len(top) < n {
			top = append(top, tf)
			continue
		}
		break
	}
	return top
}

// TopTermQuery builds a boolean OR query over every term whose frequency ratio to the
// most frequent term exceeds cutoff. The query is meant to be run with field as the
// default search field; it is "" when the field has no terms.
func TopTermQuery(idx *index.CorpusIndex, cutoff float64, field string) string {
	sorted := AllTermsSorted(idx, field)
	top := selectTop(sorted, cutoff, len(sorted))
	parts := make([]string, len(top))
	for i, tf := range top {
		parts[i] = tf.Term
	}
	return strings.Join(parts, " OR ")
}

// Terms extracts the term strings of a frequency list.
func Terms(list []model.TermFrequency) []string {
	out := make([]string, len(list))
	for i, tf := range list {
		out[i] = tf.Term
	}
	return out
}
