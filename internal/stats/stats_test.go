package stats

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-bug-analysis/index"
	"github.com/gcbaptista/go-bug-analysis/internal/tokenizer"
	"github.com/gcbaptista/go-bug-analysis/model"
)

func buildIndex(subjects ...string) *index.CorpusIndex {
	b := index.NewBuilder(1, []string{"Subject"})
	for _, s := range subjects {
		id := b.AddDocument()
		b.AddField(id, "Subject", tokenizer.Tokenize(s))
	}
	return b.Build()
}

func TestEndToEndExample(t *testing.T) {
	idx := buildIndex("login error", "login success", "payment error")

	assert.Equal(t, 2, idx.TermDocFrequency("Subject", "login"))
	assert.Equal(t, 2, idx.TermDocFrequency("Subject", "error"))
	assert.Equal(t, 1, idx.TermDocFrequency("Subject", "success"))
	assert.Equal(t, 1, idx.TermDocFrequency("Subject", "payment"))

	top := TopTerms(idx, 0.1, "Subject", 10)
	assert.Equal(t, []string{"error", "login", "payment", "success"}, Terms(top))

	report := Coverage(idx, "Subject", []string{"login", "error"})
	require.Len(t, report.Rows, 2)
	assert.Equal(t, 3, report.TotalDocs)
	assert.Equal(t, model.CoverageRow{Rank: 1, Term: "login", DocFrequency: 2, NewlyCovered: 2, CumulativeCoverage: 2.0 / 3.0}, report.Rows[0])
	assert.Equal(t, model.CoverageRow{Rank: 2, Term: "error", DocFrequency: 2, NewlyCovered: 1, CumulativeCoverage: 1.0}, report.Rows[1])
}

func TestAllTermsSortedTieBreak(t *testing.T) {
	idx := buildIndex("zeta alpha", "beta alpha", "gamma")

	got := AllTermsSorted(idx, "Subject")
	assert.Equal(t, []model.TermFrequency{
		{Term: "alpha", DocFrequency: 2},
		{Term: "beta", DocFrequency: 1},
		{Term: "gamma", DocFrequency: 1},
		{Term: "zeta", DocFrequency: 1},
	}, got)

	assert.Empty(t, AllTermsSorted(idx, "Missing"))
}

func TestTermsSorted(t *testing.T) {
	idx := buildIndex("login error", "login success", "payment error")

	got := TermsSorted(idx, "Subject", []string{"payment", "crash", "login", "payment"})
	assert.Equal(t, []model.TermFrequency{
		{Term: "login", DocFrequency: 2},
		{Term: "payment", DocFrequency: 1},
	}, got)
}

func TestTopTerms(t *testing.T) {
	// freq: a=10, b=5, c=2, d=1
	subjects := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		s := "a"
		if i < 5 {
			s += " b"
		}
		if i < 2 {
			s += " c"
		}
		if i < 1 {
			s += " d"
		}
		subjects = append(subjects, s)
	}
	idx := buildIndex(subjects...)

	tests := []struct {
		name   string
		cutoff float64
		n      int
		want   []string
	}{
		{"cutoff stops selection", 0.15, 10, []string{"a", "b", "c"}},
		{"ratio equal to cutoff is excluded", 0.2, 10, []string{"a", "b"}},
		{"n caps selection", 0.0, 2, []string{"a", "b"}},
		{"first term always kept", 0.99, 10, []string{"a"}},
		{"n of one", 0.0, 1, []string{"a"}},
		{"n of zero", 0.0, 0, []string{}},
		{"everything", 0.0, 100, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopTerms(idx, tt.cutoff, "Subject", tt.n)
			assert.Equal(t, tt.want, Terms(got))

			// Prefix property: result is a prefix of the full sorted list.
			all := AllTermsSorted(idx, "Subject")
			require.LessOrEqual(t, len(got), len(all))
			assert.Equal(t, all[:len(got)], got)
		})
	}
}

func TestTopTermQuery(t *testing.T) {
	idx := buildIndex("login error", "login success", "payment error")
	assert.Equal(t, "error OR login OR payment OR success", TopTermQuery(idx, 0.1, "Subject"))
	assert.Equal(t, "error OR login", TopTermQuery(idx, 0.5, "Subject"))
	assert.Equal(t, "", TopTermQuery(idx, 0.1, "Missing"))
}

func TestCoverageProperties(t *testing.T) {
	subjects := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		subjects = append(subjects, fmt.Sprintf("t%d t%d common%d", i%3, i%7, i%2))
	}
	idx := buildIndex(subjects...)

	report := TermDistribution(idx, "Subject")
	require.NotEmpty(t, report.Rows)

	prev := 0.0
	union := make(map[int]struct{})
	for i, row := range report.Rows {
		assert.Equal(t, i+1, row.Rank)
		assert.GreaterOrEqual(t, row.CumulativeCoverage, prev, "coverage is non-decreasing")
		assert.LessOrEqual(t, row.CumulativeCoverage, 1.0)
		prev = row.CumulativeCoverage
		for _, pe := range idx.Field("Subject").Postings(row.Term) {
			union[pe.DocID] = struct{}{}
		}
	}
	assert.InDelta(t, float64(len(union))/40.0, report.Final(), 1e-12)
	assert.InDelta(t, 1.0, report.Final(), 1e-12)
}

func TestCoverageEdgeCases(t *testing.T) {
	empty := index.NewBuilder(1, []string{"Subject"}).Build()
	report := Coverage(empty, "Subject", []string{"login"})
	require.Len(t, report.Rows, 1)
	assert.Equal(t, 0, report.TotalDocs)
	assert.Zero(t, report.Rows[0].CumulativeCoverage)

	idx := buildIndex("login error")
	report = Coverage(idx, "Subject", []string{"crash", "login", "login"})
	require.Len(t, report.Rows, 3)
	assert.Equal(t, 0, report.Rows[0].DocFrequency)
	assert.Equal(t, 0, report.Rows[0].NewlyCovered)
	assert.Equal(t, 1, report.Rows[1].NewlyCovered)
	assert.Equal(t, 0, report.Rows[2].NewlyCovered, "a repeated term covers nothing new")

	assert.Zero(t, model.CoverageReport{}.Final())
}

func TestKeywordSummary(t *testing.T) {
	idx := buildIndex("login error", "login success", "payment error", "session timeout")

	report := KeywordSummary(idx, "Subject", []string{" Error ", "LOGIN", "crash", "session"})
	assert.Equal(t, []string{"error", "login", "session"}, termsOf(report))
	assert.InDelta(t, 1.0, report.Final(), 1e-12)
}

func termsOf(r model.CoverageReport) []string {
	out := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Term
	}
	return out
}

func TestKeywordLabels(t *testing.T) {
	docs := []model.Document{
		{ID: 0, Fields: model.Record{"Ticket Id": "T-1", "Subject": "Login ERROR on exam page"}},
		{ID: 1, Fields: model.Record{"Ticket Id": "T-2", "Subject": "Catalog search slow"}},
		{ID: 2, Fields: model.Record{"Ticket Id": "T-3"}},
	}

	hits := KeywordLabels(docs, "Ticket Id", "Subject", []string{"error", "Exam", "exam", "", "report"})
	assert.Equal(t, []model.KeywordHit{
		{DocID: 0, ID: "T-1", Title: "Login ERROR on exam page", Keyword: "error"},
		{DocID: 0, ID: "T-1", Title: "Login ERROR on exam page", Keyword: "exam"},
	}, hits)
}

func TestNormalizeKeywords(t *testing.T) {
	assert.Equal(t, []string{"error", "user"}, NormalizeKeywords([]string{"Error", " ", "USER", "error "}))
}
