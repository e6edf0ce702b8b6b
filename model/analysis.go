package model

import "time"

// TermFrequency pairs a term with the number of documents containing it.
type TermFrequency struct {
	Term         string `json:"term"`
	DocFrequency int    `json:"doc_frequency"`
}

// CoverageRow is one step of a greedy coverage trace.
type CoverageRow struct {
	Rank               int     `json:"rank"` // 1-based position in the input term order
	Term               string  `json:"term"`
	DocFrequency       int     `json:"doc_frequency"`
	NewlyCovered       int     `json:"newly_covered"`
	CumulativeCoverage float64 `json:"cumulative_coverage"` // |covered| / total documents
}

// CoverageReport is the ordered output of a coverage trace.
type CoverageReport struct {
	Field     string        `json:"field"`
	TotalDocs int           `json:"total_docs"`
	Rows      []CoverageRow `json:"rows"`
}

// Final returns the cumulative coverage after the last row, or 0 when empty.
func (r CoverageReport) Final() float64 {
	if len(r.Rows) == 0 {
		return 0
	}
	return r.Rows[len(r.Rows)-1].CumulativeCoverage
}

// KeywordHit labels a document with a keyword found in its title.
type KeywordHit struct {
	DocID   int    `json:"doc_id"`
	ID      string `json:"id"`
	Title   string `json:"title"`
	Keyword string `json:"keyword"`
}

// SearchHit is a document matched by a boolean query.
type SearchHit struct {
	DocID  int               `json:"doc_id"`
	Score  float64           `json:"score"` // sum of term frequencies of matched terms
	Fields map[string]string `json:"fields,omitempty"`
}

// SearchResult holds matches in ascending document order.
type SearchResult struct {
	Query      string      `json:"query"`
	Field      string      `json:"field"`
	Hits       []SearchHit `json:"hits"`
	Total      int         `json:"total"` // matches before the limit was applied
	Generation uint64      `json:"generation"`
}

// AnalysisRun is a persisted record of one analysis executed against an index generation.
type AnalysisRun struct {
	ID         string        `json:"id"`
	Operation  string        `json:"operation"`
	Field      string        `json:"field"`
	Generation uint64        `json:"generation"`
	Documents  int           `json:"documents"`
	Summary    string        `json:"summary"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}
