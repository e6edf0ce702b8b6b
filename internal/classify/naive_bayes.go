// Package classify trains a text classifier on labelled bug reports and evaluates
// its predictions against the known labels with a confusion matrix.
package classify

import (
	"math"
	"sort"
	"strings"

	internalErrors "github.com/gcbaptista/go-bug-analysis/internal/errors"
	"github.com/gcbaptista/go-bug-analysis/model"
	"github.com/gcbaptista/go-bug-analysis/services"
)

// NormalizeLabel trims and lowercases a category label.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// NaiveBayes is a multinomial naive Bayes classifier with additive (Laplace)
// smoothing over tokenizer terms. Predict is safe for concurrent use after Train.
type NaiveBayes struct {
	tok   services.Tokenizer
	alpha float64

	classes    []string // sorted, ties in Predict go to the first
	classDocs  map[string]int
	termCounts map[string]map[string]int
	classTerms map[string]int
	vocab      map[string]struct{}
	totalDocs  int
}

// NewNaiveBayes creates an untrained classifier. alpha <= 0 falls back to 1.
func NewNaiveBayes(tok services.Tokenizer, alpha float64) *NaiveBayes {
	if alpha <= 0 {
		alpha = 1
	}
	return &NaiveBayes{tok: tok, alpha: alpha}
}

// Train fits the model on every document with a non-empty label. Labels are
// normalized with NormalizeLabel. Retraining replaces the previous model.
func (nb *NaiveBayes) Train(docs []model.Document, textField, labelField string) error {
	classDocs := make(map[string]int)
	termCounts := make(map[string]map[string]int)
	classTerms := make(map[string]int)
	vocab := make(map[string]struct{})
	total := 0

	for _, doc := range docs {
		label := NormalizeLabel(doc.Field(labelField))
		if label == "" {
			continue
		}
		total++
		classDocs[label]++
		counts, ok := termCounts[label]
		if !ok {
			counts = make(map[string]int)
			termCounts[label] = counts
		}
		for _, term := range nb.tok.Tokenize(doc.Field(textField)) {
			counts[term]++
			classTerms[label]++
			vocab[term] = struct{}{}
		}
	}
	if total == 0 {
		return internalErrors.NewValidationError(labelField, "no labelled documents to train on")
	}

	classes := make([]string, 0, len(classDocs))
	for c := range classDocs {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	nb.classes = classes
	nb.classDocs = classDocs
	nb.termCounts = termCounts
	nb.classTerms = classTerms
	nb.vocab = vocab
	nb.totalDocs = total
	return nil
}

// Classes returns the labels seen during training, sorted.
func (nb *NaiveBayes) Classes() []string {
	out := make([]string, len(nb.classes))
	copy(out, nb.classes)
	return out
}

// Predict returns the most probable label for text. Terms never seen in training
// are ignored, so an empty or unknown text falls back to the class prior.
func (nb *NaiveBayes) Predict(text string) (string, error) {
	if nb.totalDocs == 0 {
		return "", internalErrors.ErrClassifierNotTrained
	}

	terms := make([]string, 0)
	for _, term := range nb.tok.Tokenize(text) {
		if _, ok := nb.vocab[term]; ok {
			terms = append(terms, term)
		}
	}

	v := float64(len(nb.vocab))
	best, bestScore := "", math.Inf(-1)
	for _, c := range nb.classes {
		score := math.Log(float64(nb.classDocs[c]) / float64(nb.totalDocs))
		denom := float64(nb.classTerms[c]) + nb.alpha*v
		for _, term := range terms {
			score += math.Log((float64(nb.termCounts[c][term]) + nb.alpha) / denom)
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, nil
}
