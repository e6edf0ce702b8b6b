package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFieldNames(t *testing.T) {
	tests := []struct {
		name           string
		settings       AnalysisSettings
		expectedErrors int
		description    string
	}{
		{
			name: "defaults are valid",
			settings: func() AnalysisSettings {
				s := AnalysisSettings{}
				s.ApplyDefaults()
				return s
			}(),
			expectedErrors: 0,
			description:    "Applying defaults to an empty struct should yield usable settings",
		},
		{
			name: "duplicate categories after normalization",
			settings: AnalysisSettings{
				SubjectField: "Subject",
				SummaryField: "Summary",
				LabelField:   "Category",
				Categories:   []string{"error", " Error ", "user"},
			},
			expectedErrors: 1,
			description:    "Labels differing only by case or whitespace are duplicates",
		},
		{
			name: "analysis field not indexed",
			settings: AnalysisSettings{
				IndexedFields: []string{"Subject"},
				SubjectField:  "Subject",
				SummaryField:  "Summary",
				LabelField:    "Category",
			},
			expectedErrors: 1,
			description:    "Summary is used by the classifier but is not indexed",
		},
		{
			name: "empty label field and bad cutoff",
			settings: AnalysisSettings{
				SubjectField:  "Subject",
				SummaryField:  "Summary",
				LabelField:    "  ",
				TopTermCutoff: float64Ptr(1.5),
			},
			expectedErrors: 2,
			description:    "Whitespace label field and a cutoff above 1 are both reported",
		},
		{
			name: "empty category label",
			settings: AnalysisSettings{
				SubjectField: "Subject",
				SummaryField: "Summary",
				LabelField:   "Category",
				Categories:   []string{"error", ""},
			},
			expectedErrors: 1,
			description:    "Category labels must not be blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.settings.ValidateFieldNames()
			assert.Len(t, errs, tt.expectedErrors, "%s: %v", tt.description, errs)
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	s := AnalysisSettings{TopN: 5}
	s.ApplyDefaults()

	assert.Equal(t, "Ticket Id", s.IDField)
	assert.Equal(t, "Subject", s.SubjectField)
	assert.Equal(t, "Summary", s.SummaryField)
	assert.Equal(t, "Category", s.LabelField)
	assert.Equal(t, DefaultCategories, s.Categories)
	require.NotNil(t, s.TopTermCutoff)
	assert.InDelta(t, DefaultTopTermCutoff, s.Cutoff(), 1e-9)
	assert.Equal(t, 5, s.TopN, "explicit values are kept")
	assert.Equal(t, 20, s.PairwiseTopN)
	assert.Equal(t, 20, s.SimilarityDocs)
	assert.Equal(t, 100, s.SearchLimit)
	assert.Equal(t, []string{"Ticket Id", "Subject"}, s.DisplayFields)
	assert.NotNil(t, s.IndexedFields)
	assert.Equal(t, DefaultStopWords, s.StopWords)
	assert.Contains(t, s.StopWords, "the")

	// Defaults must not share the package-level slice
	s.Categories[0] = "changed"
	assert.Equal(t, "error", DefaultCategories[0])
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
analysis:
  subject_field: Title
  top_n: 10
  categories: [bug, feature]
  stemming: true
paths:
  bug_file: input/bugs.csv
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("BA_REPORT_DIR", filepath.Join(dir, "reports"))
	t.Setenv("BA_SERVER_PORT", "9191")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Title", cfg.Analysis.SubjectField)
	assert.Equal(t, 10, cfg.Analysis.TopN)
	assert.Equal(t, []string{"bug", "feature"}, cfg.Analysis.Categories)
	assert.True(t, cfg.Analysis.Stemming)
	assert.Equal(t, "Summary", cfg.Analysis.SummaryField, "unset fields keep defaults")
	assert.Equal(t, "input/bugs.csv", cfg.Paths.BugFile)
	assert.Equal(t, filepath.Join(dir, "reports"), cfg.Paths.ReportDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 9191, cfg.Server.Port)
}

func TestApplyDefaultsKeepsExplicitZeroValues(t *testing.T) {
	s := AnalysisSettings{TopTermCutoff: float64Ptr(0), StopWords: []string{}}
	s.ApplyDefaults()

	assert.Zero(t, s.Cutoff(), "an explicit 0 cutoff keeps every term")
	assert.Empty(t, s.StopWords, "an explicit empty list disables stop words")
	assert.NotNil(t, s.StopWords)
}

func TestCutoffWithoutValue(t *testing.T) {
	var s AnalysisSettings
	assert.InDelta(t, DefaultTopTermCutoff, s.Cutoff(), 1e-9)
}

func TestLoadExplicitZeroValues(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		wantCutoff    float64
		wantStopWords []string
	}{
		{
			name:          "absent keys use defaults",
			content:       "analysis:\n  top_n: 10\n",
			wantCutoff:    DefaultTopTermCutoff,
			wantStopWords: DefaultStopWords,
		},
		{
			name:          "zero cutoff is kept",
			content:       "analysis:\n  top_term_cutoff: 0\n",
			wantCutoff:    0,
			wantStopWords: DefaultStopWords,
		},
		{
			name:          "empty stop words disable the stop set",
			content:       "analysis:\n  stop_words: []\n",
			wantCutoff:    DefaultTopTermCutoff,
			wantStopWords: []string{},
		},
		{
			name:          "custom stop words replace the defaults",
			content:       "analysis:\n  stop_words: [error]\n  top_term_cutoff: 0.5\n",
			wantCutoff:    0.5,
			wantStopWords: []string{"error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantCutoff, cfg.Analysis.Cutoff(), 1e-9)
			assert.Equal(t, tt.wantStopWords, cfg.Analysis.StopWords)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("analysis:\n  top_term_cutoff: 3\n"), 0600))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top_term_cutoff")
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "resource", cfg.Paths.ReportDir)
	assert.Equal(t, filepath.Join("data", "corpus.idx.zst"), cfg.Paths.SnapshotPath())
	assert.Equal(t, filepath.Join("resource", "TopTerms.txt"), cfg.Paths.ReportPath("TopTerms.txt"))
}

func float64Ptr(v float64) *float64 { return &v }
