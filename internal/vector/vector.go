package vector

import (
	"math"

	"github.com/gcbaptista/go-bug-analysis/index"
	internalErrors "github.com/gcbaptista/go-bug-analysis/internal/errors"
)

// DocVector is a sparse document vector: position -> weight. Every populated
// position holds a non-zero weight for a term present in the document; absent
// positions are zero.
type DocVector struct {
	DocID     int
	Positions *TermPositions
	Weights   map[int]float64
}

func newDocVector(docID int, positions *TermPositions) DocVector {
	return DocVector{DocID: docID, Positions: positions, Weights: make(map[int]float64)}
}

// Weight returns the weight at pos, 0 when unset.
func (v DocVector) Weight(pos int) float64 {
	return v.Weights[pos]
}

// Norm returns the Euclidean norm of the vector.
func (v DocVector) Norm() float64 {
	sum := 0.0
	for _, w := range v.Weights {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Dense expands the vector to one entry per mapped term.
func (v DocVector) Dense() []float64 {
	n := 0
	if v.Positions != nil {
		n = v.Positions.Len()
	}
	out := make([]float64, n)
	for pos, w := range v.Weights {
		if pos < n {
			out[pos] = w
		}
	}
	return out
}

// DocumentVector builds the raw term-frequency vector of a document. Terms that are
// not in positions are skipped; an unknown document or field yields an empty vector.
func DocumentVector(idx *index.CorpusIndex, docID int, field string, positions *TermPositions) DocVector {
	v := newDocVector(docID, positions)
	f := idx.Field(field)
	if f == nil {
		return v
	}
	for term, tf := range f.DocTerms(docID) {
		if pos := positions.Position(term); pos >= 0 && tf > 0 {
			v.Weights[pos] = float64(tf)
		}
	}
	return v
}

// TFIDFWeight is the single TF-IDF weighting used across the package:
//
//	(1 + ln tf) * (ln((1 + N) / (1 + df)) + 1)
//
// It is 0 when tf <= 0. A negative df is treated as 0.
func TFIDFWeight(tf, df, totalDocs int) float64 {
	if tf <= 0 {
		return 0
	}
	return (1 + math.Log(float64(tf))) * IDF(df, totalDocs)
}

// IDF is the smoothed inverse document frequency ln((1+N)/(1+df)) + 1.
func IDF(df, totalDocs int) float64 {
	if df < 0 {
		df = 0
	}
	if totalDocs < 0 {
		totalDocs = 0
	}
	return math.Log(float64(1+totalDocs)/float64(1+df)) + 1
}

// TFIDFVector builds the TF-IDF vector of a document with TFIDFWeight.
func TFIDFVector(idx *index.CorpusIndex, docID int, field string, positions *TermPositions) DocVector {
	v := newDocVector(docID, positions)
	f := idx.Field(field)
	if f == nil {
		return v
	}
	total := idx.DocumentCount()
	for term, tf := range f.DocTerms(docID) {
		pos := positions.Position(term)
		if pos < 0 {
			continue
		}
		if w := TFIDFWeight(tf, f.DocFrequency(term), total); w != 0 {
			v.Weights[pos] = w
		}
	}
	return v
}

// CosineSimilarity returns dot(a, b) / (|a| |b|). When either vector has zero norm
// the similarity is undefined and 0 is returned. Vectors built over different
// position maps cannot be compared and yield ErrMismatchedPositions.
func CosineSimilarity(a, b DocVector) (float64, error) {
	if a.Positions != b.Positions {
		return 0, internalErrors.ErrMismatchedPositions
	}
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0, nil
	}

	small, large := a.Weights, b.Weights
	if len(small) > len(large) {
		small, large = large, small
	}
	dot := 0.0
	for pos, w := range small {
		dot += w * large[pos]
	}

	sim := dot / (na * nb)
	// Rounding can push self-similarity a hair past 1.
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return sim, nil
}
