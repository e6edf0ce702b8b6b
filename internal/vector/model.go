package vector

import (
	"github.com/gcbaptista/go-bug-analysis/index"
)

// Model is the TF-IDF model of the first documents of a field: raw term
// frequencies, document frequencies over the whole corpus, smoothed IDF and the
// resulting TF-IDF vectors. Every slice indexed by term uses Positions.
type Model struct {
	Field     string
	TotalDocs int
	Positions *TermPositions
	DocIDs    []int
	TF        []DocVector
	DF        []int
	IDF       []float64
	TFIDF     []DocVector
}

// BuildModel computes the model for documents [0, maxDocs). maxDocs is clamped to
// the document count; maxDocs <= 0 means every document.
func BuildModel(idx *index.CorpusIndex, field string, maxDocs int) *Model {
	total := idx.DocumentCount()
	if total < 0 {
		total = 0
	}
	if maxDocs <= 0 || maxDocs > total {
		maxDocs = total
	}

	positions := BuildTermPositions(idx, field)
	m := &Model{
		Field:     field,
		TotalDocs: total,
		Positions: positions,
		DocIDs:    make([]int, maxDocs),
		DF:        make([]int, positions.Len()),
		IDF:       make([]float64, positions.Len()),
	}
	for i := range m.DocIDs {
		m.DocIDs[i] = i
	}

	f := idx.Field(field)
	for pos := 0; pos < positions.Len(); pos++ {
		df := 0
		if f != nil {
			df = f.DocFrequency(positions.Term(pos))
		}
		m.DF[pos] = df
		m.IDF[pos] = IDF(df, total)
	}

	m.TF = Vectors(idx, field, m.DocIDs, positions, WeightTF)
	m.TFIDF = Vectors(idx, field, m.DocIDs, positions, WeightTFIDF)
	return m
}
