// Package cooccurrence counts how often terms appear in the same document.
package cooccurrence

import (
	"math"
	"sort"

	"github.com/gcbaptista/go-bug-analysis/index"
	"github.com/gcbaptista/go-bug-analysis/internal/vector"
)

// DefaultEpsilon is the smoothing constant of PMI and NPMI.
const DefaultEpsilon = 1.0

// Options tunes Analyze.
type Options struct {
	// Symmetric mirrors every upper-triangle cell into the lower triangle.
	// By default the lower triangle stays zero.
	Symmetric bool
	Epsilon   float64
}

// Matrix is a K×K document count matrix over an ordered term list.
// Counts[i][i] is the number of documents containing term i; Counts[i][j] with j>i
// is the number of documents containing both term i and term j.
type Matrix struct {
	Terms     []string `json:"terms"`
	Counts    [][]int  `json:"counts"`
	Symmetric bool     `json:"symmetric"`
	TotalDocs int      `json:"total_docs"`
	epsilon   float64
}

// Analyze builds the co-occurrence matrix of terms over every document of field.
// terms == nil uses the whole vocabulary of the field in lexicographic order.
// Duplicate terms keep their first position.
func Analyze(idx *index.CorpusIndex, field string, terms []string, opts Options) *Matrix {
	var positions *vector.TermPositions
	if terms == nil {
		positions = vector.BuildTermPositions(idx, field)
	} else {
		positions = vector.NewTermPositions(terms)
	}

	k := positions.Len()
	total := idx.DocumentCount()
	if total < 0 {
		total = 0
	}
	eps := opts.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	m := &Matrix{
		Terms:     positions.Terms(),
		Counts:    make([][]int, k),
		Symmetric: opts.Symmetric,
		TotalDocs: total,
		epsilon:   eps,
	}
	for i := range m.Counts {
		m.Counts[i] = make([]int, k)
	}

	present := make([]int, 0, k)
	for docID := 0; docID < total; docID++ {
		v := vector.DocumentVector(idx, docID, field, positions)
		if len(v.Weights) == 0 {
			continue
		}
		present = present[:0]
		for pos, w := range v.Weights {
			if w > 0 {
				present = append(present, pos)
			}
		}
		sort.Ints(present)
		for a, i := range present {
			m.Counts[i][i]++
			for _, j := range present[a+1:] {
				m.Counts[i][j]++
			}
		}
	}

	if opts.Symmetric {
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				m.Counts[j][i] = m.Counts[i][j]
			}
		}
	}
	return m
}

// Size returns K.
func (m *Matrix) Size() int {
	return len(m.Terms)
}

// Count returns the number of documents containing both terms i and j (or term i
// when i == j), reading the upper-triangle cell whatever the layout. Out of range
// indices return -1.
func (m *Matrix) Count(i, j int) int {
	k := m.Size()
	if i < 0 || j < 0 || i >= k || j >= k {
		return -1
	}
	if i > j {
		i, j = j, i
	}
	return m.Counts[i][j]
}

// PMI is the smoothed pointwise mutual information of terms i and j:
//
//	log((N_ij + ε) * N / ((N_i + ε)(N_j + ε)))
//
// It is 0 for an empty corpus or out of range indices.
func (m *Matrix) PMI(i, j int) float64 {
	nij := m.Count(i, j)
	if nij < 0 || m.TotalDocs == 0 {
		return 0
	}
	ni, nj := m.Count(i, i), m.Count(j, j)
	eps := m.eps()
	num := (float64(nij) + eps) * float64(m.TotalDocs)
	den := (float64(ni) + eps) * (float64(nj) + eps)
	return math.Log(num / den)
}

// NPMI normalizes PMI into [-1, 1] by -log P(i,j). Pairs that never co-occur give 0.
func (m *Matrix) NPMI(i, j int) float64 {
	nij := m.Count(i, j)
	if nij <= 0 || m.TotalDocs == 0 {
		return 0
	}
	logP := math.Log((float64(nij) + m.eps()) / float64(m.TotalDocs))
	if logP == 0 {
		return 0
	}
	return m.PMI(i, j) / -logP
}

func (m *Matrix) eps() float64 {
	if m.epsilon <= 0 {
		return DefaultEpsilon
	}
	return m.epsilon
}

// Pair is one off-diagonal cell of the matrix.
type Pair struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Count int     `json:"count"`
	NPMI  float64 `json:"npmi"`
}

// TopPairs lists term pairs that co-occur at least once, most frequent first, ties
// in matrix order. limit <= 0 returns every pair.
func (m *Matrix) TopPairs(limit int) []Pair {
	pairs := make([]Pair, 0)
	for i := 0; i < m.Size(); i++ {
		for j := i + 1; j < m.Size(); j++ {
			if c := m.Counts[i][j]; c > 0 {
				pairs = append(pairs, Pair{A: m.Terms[i], B: m.Terms[j], Count: c, NPMI: m.NPMI(i, j)})
			}
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].Count > pairs[b].Count })
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}
