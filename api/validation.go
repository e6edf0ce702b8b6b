// Package api provides validation utilities for API request handling.
package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-bug-analysis/internal/vector"
)

// maxMatrixDocs bounds the documents of one similarity or TF-IDF request.
const maxMatrixDocs = 500

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateFieldName validates an optional field name parameter.
func ValidateFieldName(param, field string) *ValidationResult {
	result := &ValidationResult{Valid: true}
	if field != "" && strings.TrimSpace(field) != field {
		result.AddError(param, "Field name cannot have leading or trailing whitespace")
	}
	return result
}

// ValidateDocumentID parses a document id path or query parameter.
func ValidateDocumentID(param, raw string) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	if raw == "" {
		result.AddError(param, "Document ID is required")
		return -1, result
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		result.AddError(param, "Document ID must be an integer")
		return -1, result
	}
	if id < 0 {
		result.AddError(param, "Document ID cannot be negative")
	}
	return id, result
}

// ValidateCutoff accepts a ratio in [0,1], or a negative value meaning "use the default".
func ValidateCutoff(cutoff float64) *ValidationResult {
	result := &ValidationResult{Valid: true}
	if cutoff > 1 {
		result.AddError("cutoff", "Cutoff must be between 0 and 1")
	}
	return result
}

// ValidateDocCount validates the document count of a matrix-producing request.
func ValidateDocCount(param string, n int) *ValidationResult {
	result := &ValidationResult{Valid: true}
	if n < 0 {
		result.AddError(param, "Document count cannot be negative")
	}
	if n > maxMatrixDocs {
		result.AddError(param, fmt.Sprintf("Document count cannot exceed %d", maxMatrixDocs))
	}
	return result
}

// ValidateWeighting parses a weighting parameter.
func ValidateWeighting(raw string) (vector.Weighting, *ValidationResult) {
	result := &ValidationResult{Valid: true}
	w, err := vector.ParseWeighting(raw)
	if err != nil {
		result.AddError("weighting", "Weighting must be 'tf' or 'tfidf'")
	}
	return w, result
}

// ValidateTerms validates an explicit term list.
func ValidateTerms(param string, terms []string) *ValidationResult {
	result := &ValidationResult{Valid: true}
	if len(terms) == 0 {
		result.AddError(param, "At least one term is required")
		return result
	}
	for i, term := range terms {
		if strings.TrimSpace(term) == "" {
			result.AddError(fmt.Sprintf("%s[%d]", param, i), "Term cannot be empty or whitespace-only")
		}
	}
	return result
}

// ValidateLabels validates an optional label set for evaluation.
func ValidateLabels(labels []string) *ValidationResult {
	result := &ValidationResult{Valid: true}
	seen := make(map[string]bool, len(labels))
	for i, label := range labels {
		normalized := strings.ToLower(strings.TrimSpace(label))
		if normalized == "" {
			result.AddError(fmt.Sprintf("labels[%d]", i), "Label cannot be empty or whitespace-only")
			continue
		}
		if seen[normalized] {
			result.AddError(fmt.Sprintf("labels[%d]", i), "Duplicate label '"+normalized+"'")
		}
		seen[normalized] = true
	}
	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}

// ValidateJSONBinding validates JSON binding and returns a standardized error
func ValidateJSONBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindJSON(target); err != nil {
		result.AddError("request_body", "Invalid request body: "+err.Error())
	}

	return result
}

// ValidateQueryBinding validates query parameter binding
func ValidateQueryBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindQuery(target); err != nil {
		result.AddError("query_parameters", "Invalid query parameters: "+err.Error())
	}

	return result
}
