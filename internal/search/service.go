package search

import (
	"fmt"
	"sort"

	"github.com/gcbaptista/go-bug-analysis/index"
	"github.com/gcbaptista/go-bug-analysis/model"
	"github.com/gcbaptista/go-bug-analysis/services"
)

// Service evaluates boolean queries against one immutable corpus index.
// Matching is purely set based: hits come back in ascending document order and
// carry the summed term frequency of the positive terms they matched.
type Service struct {
	idx          *index.CorpusIndex
	tokenizer    services.Tokenizer
	defaultField string
}

// NewService creates a new search Service.
func NewService(idx *index.CorpusIndex, tok services.Tokenizer, defaultField string) (*Service, error) {
	if idx == nil {
		return nil, fmt.Errorf("corpus index cannot be nil")
	}
	if tok == nil {
		return nil, fmt.Errorf("tokenizer cannot be nil")
	}
	if defaultField == "" {
		return nil, fmt.Errorf("default field cannot be empty")
	}
	return &Service{idx: idx, tokenizer: tok, defaultField: defaultField}, nil
}

// Search parses raw and returns up to limit hits. A limit <= 0 returns every hit.
// Malformed queries fail with a *errors.QuerySyntaxError.
func (s *Service) Search(raw string, limit int) (model.SearchResult, error) {
	q, err := Parse(raw)
	if err != nil {
		return model.SearchResult{}, err
	}

	matched := s.evaluate(q.Root)
	positives := s.positiveTerms(q.Root, false, nil)

	result := model.SearchResult{
		Query:      raw,
		Field:      s.defaultField,
		Total:      len(matched),
		Generation: s.idx.Generation,
		Hits:       make([]model.SearchHit, 0),
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	for _, docID := range matched {
		result.Hits = append(result.Hits, model.SearchHit{DocID: docID, Score: s.score(docID, positives)})
	}
	return result, nil
}

// Match returns the ascending ids of every document matching an already parsed query.
func (s *Service) Match(q *Query) []int {
	return s.evaluate(q.Root)
}

// FirstMatch returns the id of the first document matching raw, or -1 when nothing matches.
func (s *Service) FirstMatch(raw string) (int, error) {
	res, err := s.Search(raw, 1)
	if err != nil {
		return -1, err
	}
	if len(res.Hits) == 0 {
		return -1, nil
	}
	return res.Hits[0].DocID, nil
}

// TermQuery returns up to limit ids of documents whose field contains the exact indexed term.
// A limit <= 0 returns every id. Unknown fields or terms yield an empty slice.
func TermQuery(idx *index.CorpusIndex, field, term string, limit int) []int {
	f := idx.Field(field)
	if f == nil {
		return []int{}
	}
	return f.Postings(term).DocIDs(limit)
}

type fieldTerm struct {
	field string
	term  string
}

func (s *Service) fieldOf(n *TermNode) string {
	if n.Field != "" {
		return n.Field
	}
	return s.defaultField
}

func (s *Service) evaluate(node Node) []int {
	switch n := node.(type) {
	case *TermNode:
		return s.evaluateTerm(n)
	case *AndNode:
		if len(n.Children) == 0 {
			return []int{}
		}
		result := s.evaluate(n.Children[0])
		for _, child := range n.Children[1:] {
			if len(result) == 0 {
				break
			}
			result = intersect(result, s.evaluate(child))
		}
		return s.exclude(result, n.Exclude)
	case *OrNode:
		result := []int{}
		for _, child := range n.Children {
			result = union(result, s.evaluate(child))
		}
		return s.exclude(result, n.Exclude)
	default:
		// A prohibited clause with nothing to subtract from.
		return []int{}
	}
}

// exclude removes the documents matched by any of nodes from result.
func (s *Service) exclude(result []int, nodes []Node) []int {
	for _, x := range nodes {
		if len(result) == 0 {
			break
		}
		result = subtract(result, s.evaluate(x))
	}
	return result
}

func (s *Service) evaluateTerm(n *TermNode) []int {
	f := s.idx.Field(s.fieldOf(n))
	if f == nil {
		return nil
	}
	tokens := s.tokenizer.Tokenize(n.Text)
	if len(tokens) == 0 {
		return nil
	}

	if n.Prefix {
		if len(tokens) != 1 {
			return nil
		}
		terms := f.Terms()
		var result []int
		for i := sort.SearchStrings(terms, tokens[0]); i < len(terms) && hasPrefix(terms[i], tokens[0]); i++ {
			result = union(result, f.Postings(terms[i]).DocIDs(0))
		}
		return result
	}

	// Multi-token words and phrases require every token.
	result := f.Postings(tokens[0]).DocIDs(0)
	for _, tok := range tokens[1:] {
		if len(result) == 0 {
			break
		}
		result = intersect(result, f.Postings(tok).DocIDs(0))
	}
	return result
}

// positiveTerms collects the (field, term) leaves that are not under an odd number of NOTs.
func (s *Service) positiveTerms(node Node, negated bool, acc []fieldTerm) []fieldTerm {
	switch n := node.(type) {
	case *TermNode:
		if negated || n.Prefix {
			return acc
		}
		for _, tok := range s.tokenizer.Tokenize(n.Text) {
			acc = append(acc, fieldTerm{field: s.fieldOf(n), term: tok})
		}
	case *AndNode:
		for _, c := range n.Children {
			acc = s.positiveTerms(c, negated, acc)
		}
		for _, x := range n.Exclude {
			acc = s.positiveTerms(x, !negated, acc)
		}
	case *OrNode:
		for _, c := range n.Children {
			acc = s.positiveTerms(c, negated, acc)
		}
		for _, x := range n.Exclude {
			acc = s.positiveTerms(x, !negated, acc)
		}
	case *NotNode:
		acc = s.positiveTerms(n.Child, !negated, acc)
	}
	return acc
}

func (s *Service) score(docID int, terms []fieldTerm) float64 {
	seen := make(map[fieldTerm]struct{}, len(terms))
	total := 0
	for _, ft := range terms {
		if _, dup := seen[ft]; dup {
			continue
		}
		seen[ft] = struct{}{}
		if tf := s.idx.DocumentTermFrequency(docID, ft.field, ft.term); tf > 0 {
			total += tf
		}
	}
	return float64(total)
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// intersect, union and subtract operate on ascending, duplicate-free id slices.

func intersect(a, b []int) []int {
	out := make([]int, 0)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

func union(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		default:
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

func subtract(a, b []int) []int {
	out := make([]int, 0, len(a))
	j := 0
	for _, id := range a {
		for j < len(b) && b[j] < id {
			j++
		}
		if j < len(b) && b[j] == id {
			continue
		}
		out = append(out, id)
	}
	return out
}
