package classify

import (
	"fmt"

	internalErrors "github.com/gcbaptista/go-bug-analysis/internal/errors"
	"github.com/gcbaptista/go-bug-analysis/model"
	"github.com/gcbaptista/go-bug-analysis/services"
)

// ConfusionMatrix is a square grid over an ordered label set.
// Counts[i][j] is the number of documents with true label i predicted as j.
type ConfusionMatrix struct {
	Labels []string `json:"labels"`
	Counts [][]int  `json:"counts"`
	index  map[string]int
}

// NewConfusionMatrix creates an empty matrix. Labels are normalized; empty or
// duplicate labels are rejected.
func NewConfusionMatrix(labels []string) (*ConfusionMatrix, error) {
	if len(labels) == 0 {
		return nil, internalErrors.NewValidationError("labels", "label set cannot be empty")
	}
	cm := &ConfusionMatrix{
		Labels: make([]string, len(labels)),
		Counts: make([][]int, len(labels)),
		index:  make(map[string]int, len(labels)),
	}
	for i, l := range labels {
		n := NormalizeLabel(l)
		if n == "" {
			return nil, internalErrors.NewValidationError("labels", fmt.Sprintf("label at position %d is empty", i))
		}
		if _, dup := cm.index[n]; dup {
			return nil, internalErrors.NewValidationError("labels", fmt.Sprintf("duplicate label '%s'", n))
		}
		cm.index[n] = i
		cm.Labels[i] = n
		cm.Counts[i] = make([]int, len(labels))
	}
	return cm, nil
}

// Index returns the position of label in the label set, or -1.
func (cm *ConfusionMatrix) Index(label string) int {
	i, ok := cm.index[NormalizeLabel(label)]
	if !ok {
		return -1
	}
	return i
}

// Add counts one prediction. It reports false, and counts nothing, when either
// label is outside the label set.
func (cm *ConfusionMatrix) Add(truth, predicted string) bool {
	ti, pi := cm.Index(truth), cm.Index(predicted)
	if ti < 0 || pi < 0 {
		return false
	}
	cm.Counts[ti][pi]++
	return true
}

// RowSum is the number of counted documents whose true label is Labels[i].
func (cm *ConfusionMatrix) RowSum(i int) int {
	sum := 0
	for _, c := range cm.Counts[i] {
		sum += c
	}
	return sum
}

// Total is the sum of all cells.
func (cm *ConfusionMatrix) Total() int {
	total := 0
	for i := range cm.Counts {
		total += cm.RowSum(i)
	}
	return total
}

// Correct is the sum of the diagonal.
func (cm *ConfusionMatrix) Correct() int {
	correct := 0
	for i := range cm.Counts {
		correct += cm.Counts[i][i]
	}
	return correct
}

// Accuracy is Correct/Total, 0 for an empty matrix.
func (cm *ConfusionMatrix) Accuracy() float64 {
	total := cm.Total()
	if total == 0 {
		return 0
	}
	return float64(cm.Correct()) / float64(total)
}

// ErrorRate is 1 - Accuracy, 0 for an empty matrix.
func (cm *ConfusionMatrix) ErrorRate() float64 {
	if cm.Total() == 0 {
		return 0
	}
	return 1 - cm.Accuracy()
}

// Prediction is the label assigned to a document that had no ground truth.
type Prediction struct {
	DocID     int    `json:"doc_id"`
	Text      string `json:"text"`
	Predicted string `json:"predicted"`
}

// Evaluation is the outcome of one evaluation run.
//
// Documents whose true or predicted label is outside the label set are not
// counted as errors; they only increase Excluded. Accuracy therefore overstates
// real accuracy when Excluded is large relative to Total.
type Evaluation struct {
	Matrix    *ConfusionMatrix `json:"matrix"`
	Total     int              `json:"total"`
	Correct   int              `json:"correct"`
	Excluded  int              `json:"excluded"`
	Accuracy  float64          `json:"accuracy"`
	ErrorRate float64          `json:"error_rate"`
	Unlabeled []Prediction     `json:"unlabeled"`
}

// Evaluate predicts the label of every document from textField and compares it with
// labelField. Documents without a true label are listed in Unlabeled with their prediction.
func Evaluate(labels []string, docs []model.Document, labelField, textField string, c services.Classifier) (*Evaluation, error) {
	cm, err := NewConfusionMatrix(labels)
	if err != nil {
		return nil, err
	}

	ev := &Evaluation{Matrix: cm, Unlabeled: make([]Prediction, 0)}
	for _, doc := range docs {
		text := doc.Field(textField)
		predicted, err := c.Predict(text)
		if err != nil {
			return nil, fmt.Errorf("failed to classify document %d: %w", doc.ID, err)
		}
		predicted = NormalizeLabel(predicted)

		truth := NormalizeLabel(doc.Field(labelField))
		if truth == "" {
			ev.Unlabeled = append(ev.Unlabeled, Prediction{DocID: doc.ID, Text: text, Predicted: predicted})
		}
		if !cm.Add(truth, predicted) {
			ev.Excluded++
		}
	}

	ev.Total = cm.Total()
	ev.Correct = cm.Correct()
	ev.Accuracy = cm.Accuracy()
	ev.ErrorRate = cm.ErrorRate()
	return ev, nil
}
