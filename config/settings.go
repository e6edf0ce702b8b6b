// Package config provides configuration structures for the bug analysis engine.
// It defines analysis settings, file locations, logging and server options.
package config

import (
	"strings"
)

// DefaultCategories is the closed label set used when none is configured.
var DefaultCategories = []string{"error", "user", "module", "report", "editor", "exam", "learning", "catalog", "session"}

// DefaultStopWords is the English stop set of Lucene's StandardAnalyzer.
var DefaultStopWords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for", "if", "in", "into", "is", "it",
	"no", "not", "of", "on", "or", "such", "that", "the", "their", "then", "there", "these",
	"they", "this", "to", "was", "will", "with",
}

// DefaultTopTermCutoff is the top-term ratio used when none is configured.
const DefaultTopTermCutoff = 0.1

// AnalysisSettings contains every knob of the text-analytics pipeline.
//
// IndexedFields selects which record columns are tokenized into the corpus index.
// An empty list means every column found in the record source.
// SubjectField is the default field for term statistics, search, similarity and
// co-occurrence; SummaryField feeds the TF-IDF model and the classifier;
// LabelField holds the ground-truth category of a record.
type AnalysisSettings struct {
	IndexedFields         []string `yaml:"indexed_fields" json:"indexed_fields"`                 // Columns to index, empty means all
	IDField               string   `yaml:"id_field" json:"id_field"`                             // Column holding the external ticket id (e.g., "Ticket Id")
	SubjectField          string   `yaml:"subject_field" json:"subject_field"`                   // Default analysis field (e.g., "Subject")
	SummaryField          string   `yaml:"summary_field" json:"summary_field"`                   // Classifier/TF-IDF text field (e.g., "Summary")
	LabelField            string   `yaml:"label_field" json:"label_field"`                       // Ground-truth label column (e.g., "Category")
	Categories            []string `yaml:"categories" json:"categories"`                         // Ordered closed label set for evaluation
	TopTermCutoff         *float64 `yaml:"top_term_cutoff" json:"top_term_cutoff"`               // Ratio against the most frequent term, in [0,1]; nil means the default
	TopN                  int      `yaml:"top_n" json:"top_n"`                                   // Max terms returned by top-terms
	PairwiseTopN          int      `yaml:"pairwise_top_n" json:"pairwise_top_n"`                 // Top terms fed into co-occurrence
	SimilarityDocs        int      `yaml:"similarity_docs" json:"similarity_docs"`               // First N documents compared pairwise
	TFIDFDocs             int      `yaml:"tfidf_docs" json:"tfidf_docs"`                         // First N documents dumped by the TF-IDF model
	SearchLimit           int      `yaml:"search_limit" json:"search_limit"`                     // Default max hits for keyword search
	DisplayFields         []string `yaml:"display_fields" json:"display_fields"`                 // Fields printed per search hit
	StopWords             []string `yaml:"stop_words" json:"stop_words"`                         // Terms dropped by the tokenizer; nil means DefaultStopWords, [] disables
	Stemming              bool     `yaml:"stemming" json:"stemming"`                             // Snowball English stemming
	CooccurrenceSymmetric bool     `yaml:"cooccurrence_symmetric" json:"cooccurrence_symmetric"` // Mirror the upper triangle into the lower
}

// ValidateFieldNames validates field names and numeric ranges.
// It returns one message per problem; an empty result means the settings are usable.
func (settings *AnalysisSettings) ValidateFieldNames() []string {
	var conflicts []string

	conflicts = append(conflicts, checkDuplicates("indexed_fields", settings.IndexedFields)...)
	conflicts = append(conflicts, checkDuplicates("categories", normalizeAll(settings.Categories))...)
	conflicts = append(conflicts, checkDuplicates("display_fields", settings.DisplayFields)...)

	named := []struct{ key, field string }{
		{"subject_field", settings.SubjectField},
		{"summary_field", settings.SummaryField},
		{"label_field", settings.LabelField},
	}
	for _, n := range named {
		if strings.TrimSpace(n.field) == "" {
			conflicts = append(conflicts, "Field name for '"+n.key+"' cannot be empty or whitespace-only")
		}
	}

	allFields := make([]string, 0, len(settings.IndexedFields)+len(settings.DisplayFields))
	allFields = append(allFields, settings.IndexedFields...)
	allFields = append(allFields, settings.DisplayFields...)
	for _, field := range allFields {
		if strings.TrimSpace(field) == "" {
			conflicts = append(conflicts, "Field name cannot be empty or whitespace-only")
		}
	}

	for _, label := range settings.Categories {
		if strings.TrimSpace(label) == "" {
			conflicts = append(conflicts, "Category label cannot be empty or whitespace-only")
		}
	}

	conflicts = append(conflicts, settings.validateFieldReferences()...)

	if c := settings.Cutoff(); c < 0 || c > 1 {
		conflicts = append(conflicts, "top_term_cutoff must be between 0 and 1")
	}

	return conflicts
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, fields []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, field := range fields {
		if seen[field] {
			errors = append(errors, "Duplicate value '"+field+"' found in "+fieldName)
		}
		seen[field] = true
	}

	return errors
}

// validateFieldReferences checks that the analysis fields are actually indexed
// when an explicit field list is configured.
func (settings *AnalysisSettings) validateFieldReferences() []string {
	if len(settings.IndexedFields) == 0 {
		return nil
	}

	var errors []string
	indexed := make(map[string]bool, len(settings.IndexedFields))
	for _, field := range settings.IndexedFields {
		indexed[field] = true
	}

	for _, field := range []string{settings.SubjectField, settings.SummaryField} {
		if field != "" && !indexed[field] {
			errors = append(errors, "Field '"+field+"' is used for analysis but is not in indexed_fields")
		}
	}
	return errors
}

// ApplyDefaults applies default values to the analysis settings
func (settings *AnalysisSettings) ApplyDefaults() {
	if settings.IDField == "" {
		settings.IDField = "Ticket Id"
	}
	if settings.SubjectField == "" {
		settings.SubjectField = "Subject"
	}
	if settings.SummaryField == "" {
		settings.SummaryField = "Summary"
	}
	if settings.LabelField == "" {
		settings.LabelField = "Category"
	}
	if len(settings.Categories) == 0 {
		settings.Categories = append([]string(nil), DefaultCategories...)
	}
	if settings.TopTermCutoff == nil {
		cutoff := DefaultTopTermCutoff
		settings.TopTermCutoff = &cutoff
	}
	if settings.TopN == 0 {
		settings.TopN = 100
	}
	if settings.PairwiseTopN == 0 {
		settings.PairwiseTopN = 20
	}
	if settings.SimilarityDocs == 0 {
		settings.SimilarityDocs = 20
	}
	if settings.TFIDFDocs == 0 {
		settings.TFIDFDocs = 4
	}
	if settings.SearchLimit == 0 {
		settings.SearchLimit = 100
	}

	// Initialize empty slices if nil to prevent nil pointer issues
	if settings.IndexedFields == nil {
		settings.IndexedFields = []string{}
	}
	if settings.DisplayFields == nil {
		settings.DisplayFields = []string{settings.IDField, settings.SubjectField}
	}
	if settings.StopWords == nil {
		settings.StopWords = append([]string(nil), DefaultStopWords...)
	}
}

// Cutoff returns the configured top-term cutoff, or DefaultTopTermCutoff when unset.
// An explicit 0 keeps every term.
func (settings *AnalysisSettings) Cutoff() float64 {
	if settings.TopTermCutoff == nil {
		return DefaultTopTermCutoff
	}
	return *settings.TopTermCutoff
}

func normalizeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}
