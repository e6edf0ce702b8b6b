// Package vector implements the sparse vector-space model over a corpus index:
// term position maps, raw term-frequency and TF-IDF document vectors, and cosine
// similarity between them.
package vector

import (
	"github.com/gcbaptista/go-bug-analysis/index"
)

// TermPositions is a bijection between terms and dense integer positions, built once
// per analysis and shared by every vector of that analysis so positions line up.
type TermPositions struct {
	byTerm map[string]int
	terms  []string
}

// NewTermPositions assigns positions in the given order. A term seen again keeps
// its first position.
func NewTermPositions(terms []string) *TermPositions {
	p := &TermPositions{
		byTerm: make(map[string]int, len(terms)),
		terms:  make([]string, 0, len(terms)),
	}
	for _, t := range terms {
		if _, ok := p.byTerm[t]; ok {
			continue
		}
		p.byTerm[t] = len(p.terms)
		p.terms = append(p.terms, t)
	}
	return p
}

// BuildTermPositions maps every term of field in index enumeration order (lexicographic).
// An unknown field gives an empty map.
func BuildTermPositions(idx *index.CorpusIndex, field string) *TermPositions {
	f := idx.Field(field)
	if f == nil {
		return NewTermPositions(nil)
	}
	return NewTermPositions(f.Terms())
}

// Position returns the position of term, or -1 when it is not mapped.
func (p *TermPositions) Position(term string) int {
	if p == nil {
		return -1
	}
	pos, ok := p.byTerm[term]
	if !ok {
		return -1
	}
	return pos
}

// Term returns the term at pos, or "" when pos is out of range.
func (p *TermPositions) Term(pos int) string {
	if p == nil || pos < 0 || pos >= len(p.terms) {
		return ""
	}
	return p.terms[pos]
}

// Len returns the number of mapped terms.
func (p *TermPositions) Len() int {
	if p == nil {
		return 0
	}
	return len(p.terms)
}

// Terms returns the mapped terms in position order.
func (p *TermPositions) Terms() []string {
	out := make([]string, len(p.terms))
	copy(out, p.terms)
	return out
}
