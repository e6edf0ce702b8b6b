package vector

import (
	"fmt"

	"github.com/gcbaptista/go-bug-analysis/index"
	internalErrors "github.com/gcbaptista/go-bug-analysis/internal/errors"
)

// Weighting selects how document vectors are weighted for similarity.
type Weighting string

const (
	WeightTF    Weighting = "tf"
	WeightTFIDF Weighting = "tfidf"
)

// ParseWeighting accepts "tf" or "tfidf"; "" means tf.
func ParseWeighting(s string) (Weighting, error) {
	switch Weighting(s) {
	case "", WeightTF:
		return WeightTF, nil
	case WeightTFIDF:
		return WeightTFIDF, nil
	default:
		return "", internalErrors.NewValidationError("weighting", fmt.Sprintf("unknown weighting '%s', expected tf or tfidf", s))
	}
}

// Vectors builds one vector per document id over a shared position map.
func Vectors(idx *index.CorpusIndex, field string, docIDs []int, positions *TermPositions, w Weighting) []DocVector {
	out := make([]DocVector, len(docIDs))
	for i, id := range docIDs {
		if w == WeightTFIDF {
			out[i] = TFIDFVector(idx, id, field, positions)
		} else {
			out[i] = DocumentVector(idx, id, field, positions)
		}
	}
	return out
}

// SimilarityMatrix computes pairwise cosine similarity. Both triangles are filled and
// the diagonal holds self-similarity (1, or 0 for an empty vector).
func SimilarityMatrix(vectors []DocVector) ([][]float64, error) {
	n := len(vectors)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sim, err := CosineSimilarity(vectors[i], vectors[j])
			if err != nil {
				return nil, fmt.Errorf("similarity of documents %d and %d: %w", vectors[i].DocID, vectors[j].DocID, err)
			}
			m[i][j] = sim
			m[j][i] = sim
		}
	}
	return m, nil
}

// SimilarityResult is the similarity matrix of a document range.
type SimilarityResult struct {
	Field     string      `json:"field"`
	Weighting Weighting   `json:"weighting"`
	DocIDs    []int       `json:"doc_ids"`
	Matrix    [][]float64 `json:"matrix"`
}

// DocumentSimilarity compares the first docNum documents of the corpus pairwise.
// docNum is clamped to the document count; docNum <= 0 means every document.
func DocumentSimilarity(idx *index.CorpusIndex, field string, docNum int, w Weighting) (*SimilarityResult, error) {
	total := idx.DocumentCount()
	if total < 0 {
		total = 0
	}
	if docNum <= 0 || docNum > total {
		docNum = total
	}
	ids := make([]int, docNum)
	for i := range ids {
		ids[i] = i
	}

	positions := BuildTermPositions(idx, field)
	matrix, err := SimilarityMatrix(Vectors(idx, field, ids, positions, w))
	if err != nil {
		return nil, err
	}
	return &SimilarityResult{Field: field, Weighting: w, DocIDs: ids, Matrix: matrix}, nil
}

// PairSimilarity is the cosine similarity of two documents over the field vocabulary.
// Unknown document ids produce a ValidationError.
func PairSimilarity(idx *index.CorpusIndex, field string, a, b int, w Weighting) (float64, error) {
	total := idx.DocumentCount()
	for _, id := range []int{a, b} {
		if id < 0 || id >= total {
			return 0, internalErrors.NewValidationError("doc_id", fmt.Sprintf("document %d does not exist", id))
		}
	}
	positions := BuildTermPositions(idx, field)
	vs := Vectors(idx, field, []int{a, b}, positions, w)
	return CosineSimilarity(vs[0], vs[1])
}
