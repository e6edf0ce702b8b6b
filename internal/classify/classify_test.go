package classify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/go-bug-analysis/internal/errors"
	"github.com/gcbaptista/go-bug-analysis/internal/tokenizer"
	"github.com/gcbaptista/go-bug-analysis/model"
)

func doc(id int, summary, category string) model.Document {
	return model.Document{ID: id, Fields: model.Record{"Summary": summary, "Category": category}}
}

// stubClassifier answers from a fixed text -> label table.
type stubClassifier struct {
	answers map[string]string
	err     error
}

func (s *stubClassifier) Train(docs []model.Document, textField, labelField string) error {
	return nil
}

func (s *stubClassifier) Predict(text string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.answers[text], nil
}

func TestNaiveBayes(t *testing.T) {
	nb := NewNaiveBayes(tokenizer.Default, 0)

	_, err := nb.Predict("anything")
	assert.True(t, errors.Is(err, internalErrors.ErrClassifierNotTrained))

	docs := []model.Document{
		doc(0, "login fails with error", "Error"),
		doc(1, "error page crash", " error "),
		doc(2, "exam timer wrong", "exam"),
		doc(3, "exam score missing", "EXAM"),
		doc(4, "user cannot login", "user"),
		doc(5, "no label here", ""),
	}
	require.NoError(t, nb.Train(docs, "Summary", "Category"))
	assert.Equal(t, []string{"error", "exam", "user"}, nb.Classes())

	tests := []struct {
		text string
		want string
	}{
		{"exam timer", "exam"},
		{"Error crash", "error"},
		{"cannot", "user"},
		{"", "error"},
		{"completely unseen words", "error"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := nb.Predict(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNaiveBayesTrainWithoutLabels(t *testing.T) {
	nb := NewNaiveBayes(tokenizer.Default, 1)
	err := nb.Train([]model.Document{doc(0, "text", "")}, "Summary", "Category")
	assert.True(t, errors.Is(err, internalErrors.ErrInvalidInput))
}

func TestNewConfusionMatrix(t *testing.T) {
	cm, err := NewConfusionMatrix([]string{" Error", "USER"})
	require.NoError(t, err)
	assert.Equal(t, []string{"error", "user"}, cm.Labels)
	assert.Equal(t, 1, cm.Index("user"))
	assert.Equal(t, -1, cm.Index("exam"))
	assert.Zero(t, cm.Accuracy())
	assert.Zero(t, cm.ErrorRate())

	tests := []struct {
		name   string
		labels []string
	}{
		{"empty set", nil},
		{"duplicate", []string{"error", "Error"}},
		{"blank", []string{"error", "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfusionMatrix(tt.labels)
			assert.True(t, errors.Is(err, internalErrors.ErrInvalidInput))
		})
	}
}

func TestEvaluate(t *testing.T) {
	docs := []model.Document{
		doc(0, "a", "error"),
		doc(1, "b", "error"),
		doc(2, "c", "exam"),
		doc(3, "d", ""),
		doc(4, "e", "catalog"),
		doc(5, "f", "user"),
	}
	c := &stubClassifier{answers: map[string]string{
		"a": "error",
		"b": "user",
		"c": "Exam",
		"d": "exam",
		"e": "error",
		"f": "module",
	}}

	ev, err := Evaluate([]string{"error", "user", "exam"}, docs, "Category", "Summary", c)
	require.NoError(t, err)

	assert.Equal(t, [][]int{
		{1, 1, 0},
		{0, 0, 0},
		{0, 0, 1},
	}, ev.Matrix.Counts)
	assert.Equal(t, 3, ev.Total)
	assert.Equal(t, 2, ev.Correct)
	assert.Equal(t, 3, ev.Excluded)
	assert.Equal(t, len(docs), ev.Total+ev.Excluded, "every document is counted or excluded")
	assert.InDelta(t, 2.0/3.0, ev.Accuracy, 1e-12)
	assert.InDelta(t, 1.0, ev.Accuracy+ev.ErrorRate, 1e-12)
	assert.Equal(t, []Prediction{{DocID: 3, Text: "d", Predicted: "exam"}}, ev.Unlabeled)

	sum := 0
	for i := range ev.Matrix.Counts {
		sum += ev.Matrix.RowSum(i)
	}
	assert.Equal(t, ev.Total, sum)
}

func TestEvaluateErrors(t *testing.T) {
	docs := []model.Document{doc(0, "a", "error")}

	_, err := Evaluate([]string{"error", "error"}, docs, "Category", "Summary", &stubClassifier{})
	assert.True(t, errors.Is(err, internalErrors.ErrInvalidInput))

	_, err = Evaluate([]string{"error"}, docs, "Category", "Summary", &stubClassifier{err: internalErrors.ErrClassifierNotTrained})
	assert.True(t, errors.Is(err, internalErrors.ErrClassifierNotTrained))

	ev, err := Evaluate([]string{"error"}, nil, "Category", "Summary", &stubClassifier{})
	require.NoError(t, err)
	assert.Zero(t, ev.Accuracy)
	assert.Zero(t, ev.ErrorRate)
}
