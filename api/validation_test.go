package api

import (
	"testing"

	"github.com/gcbaptista/go-bug-analysis/internal/vector"
)

func TestValidationResult_AddError(t *testing.T) {
	result := &ValidationResult{Valid: true}

	result.AddError("field1", "error message")

	if result.Valid {
		t.Error("Expected Valid to be false after adding error")
	}

	if len(result.Errors) != 1 {
		t.Errorf("Expected 1 error, got %d", len(result.Errors))
	}

	if result.Errors[0].Field != "field1" {
		t.Errorf("Expected field 'field1', got '%s'", result.Errors[0].Field)
	}

	if result.Errors[0].Message != "error message" {
		t.Errorf("Expected message 'error message', got '%s'", result.Errors[0].Message)
	}
}

func TestValidationResult_HasErrors(t *testing.T) {
	result := &ValidationResult{Valid: true}

	if result.HasErrors() {
		t.Error("Expected HasErrors to be false for empty result")
	}

	result.AddError("field", "message")

	if !result.HasErrors() {
		t.Error("Expected HasErrors to be true after adding error")
	}
}

func TestValidateDocumentID(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantID    int
		wantValid bool
		wantError string
	}{
		{name: "valid id", raw: "3", wantID: 3, wantValid: true},
		{name: "zero", raw: "0", wantID: 0, wantValid: true},
		{name: "empty", raw: "", wantID: -1, wantError: "Document ID is required"},
		{name: "not a number", raw: "T-1", wantID: -1, wantError: "Document ID must be an integer"},
		{name: "negative", raw: "-2", wantID: -2, wantError: "Document ID cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, result := ValidateDocumentID("doc_id", tt.raw)

			if id != tt.wantID {
				t.Errorf("Expected id %d, got %d", tt.wantID, id)
			}
			if result.Valid != tt.wantValid {
				t.Errorf("Expected Valid=%v, got %v", tt.wantValid, result.Valid)
			}
			if tt.wantError != "" {
				if len(result.Errors) == 0 {
					t.Fatal("Expected validation error but got none")
				}
				if result.Errors[0].Message != tt.wantError {
					t.Errorf("Expected error '%s', got '%s'", tt.wantError, result.Errors[0].Message)
				}
				if result.Errors[0].Field != "doc_id" {
					t.Errorf("Expected field 'doc_id', got '%s'", result.Errors[0].Field)
				}
			}
		})
	}
}

func TestValidateFieldName(t *testing.T) {
	tests := []struct {
		field     string
		wantValid bool
	}{
		{"", true},
		{"Subject", true},
		{"Ticket Id", true},
		{" Subject", false},
		{"Subject ", false},
	}

	for _, tt := range tests {
		result := ValidateFieldName("field", tt.field)
		if result.Valid != tt.wantValid {
			t.Errorf("ValidateFieldName(%q): expected Valid=%v, got %v", tt.field, tt.wantValid, result.Valid)
		}
	}
}

func TestValidateCutoff(t *testing.T) {
	tests := []struct {
		cutoff    float64
		wantValid bool
	}{
		{-1, true},
		{0, true},
		{0.5, true},
		{1, true},
		{1.01, false},
	}

	for _, tt := range tests {
		if got := ValidateCutoff(tt.cutoff).Valid; got != tt.wantValid {
			t.Errorf("ValidateCutoff(%v): expected Valid=%v, got %v", tt.cutoff, tt.wantValid, got)
		}
	}
}

func TestValidateDocCount(t *testing.T) {
	tests := []struct {
		n         int
		wantValid bool
	}{
		{0, true},
		{20, true},
		{maxMatrixDocs, true},
		{maxMatrixDocs + 1, false},
		{-1, false},
	}

	for _, tt := range tests {
		if got := ValidateDocCount("docs", tt.n).Valid; got != tt.wantValid {
			t.Errorf("ValidateDocCount(%d): expected Valid=%v, got %v", tt.n, tt.wantValid, got)
		}
	}
}

func TestValidateWeighting(t *testing.T) {
	tests := []struct {
		raw       string
		want      vector.Weighting
		wantValid bool
	}{
		{"", vector.WeightTF, true},
		{"tf", vector.WeightTF, true},
		{"tfidf", vector.WeightTFIDF, true},
		{"bm25", "", false},
	}

	for _, tt := range tests {
		w, result := ValidateWeighting(tt.raw)
		if result.Valid != tt.wantValid {
			t.Errorf("ValidateWeighting(%q): expected Valid=%v, got %v", tt.raw, tt.wantValid, result.Valid)
		}
		if tt.wantValid && w != tt.want {
			t.Errorf("ValidateWeighting(%q): expected %q, got %q", tt.raw, tt.want, w)
		}
	}
}

func TestValidateTerms(t *testing.T) {
	tests := []struct {
		name       string
		terms      []string
		wantErrors int
	}{
		{name: "valid terms", terms: []string{"login", "error"}, wantErrors: 0},
		{name: "no terms", terms: nil, wantErrors: 1},
		{name: "blank terms", terms: []string{"login", " ", ""}, wantErrors: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateTerms("terms", tt.terms)
			if len(result.Errors) != tt.wantErrors {
				t.Errorf("Expected %d errors, got %d: %v", tt.wantErrors, len(result.Errors), result.Errors)
			}
		})
	}
}

func TestValidateLabels(t *testing.T) {
	tests := []struct {
		name       string
		labels     []string
		wantErrors int
	}{
		{name: "empty uses defaults", labels: nil, wantErrors: 0},
		{name: "valid labels", labels: []string{"error", "user"}, wantErrors: 0},
		{name: "duplicate after normalization", labels: []string{"Error", " error "}, wantErrors: 1},
		{name: "blank label", labels: []string{"error", "  "}, wantErrors: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateLabels(tt.labels)
			if len(result.Errors) != tt.wantErrors {
				t.Errorf("Expected %d errors, got %d: %v", tt.wantErrors, len(result.Errors), result.Errors)
			}
		})
	}
}
