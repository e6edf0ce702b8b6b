package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gcbaptista/go-bug-analysis/internal/classify"
	internalErrors "github.com/gcbaptista/go-bug-analysis/internal/errors"
	"github.com/gcbaptista/go-bug-analysis/internal/vector"
	"github.com/gcbaptista/go-bug-analysis/model"
)

func TestWriteText(t *testing.T) {
	sink := NewFileSink()
	path := filepath.Join(t.TempDir(), "nested", TopTermsFile)

	require.NoError(t, sink.WriteText("first", path, false))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	err = sink.WriteText("second", path, false)
	assert.True(t, errors.Is(err, internalErrors.ErrReportExists))

	require.NoError(t, sink.WriteText("new", path, true))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got), "overwrite replaces rather than appends")
}

func TestWriteSheet(t *testing.T) {
	sink := NewFileSink()
	path := filepath.Join(t.TempDir(), "BugReport.xlsx")

	require.NoError(t, sink.WriteSheet(path, "Summary", [][]string{{"a", "b"}, {"c"}}))
	require.NoError(t, sink.WriteSheet(path, "Details", [][]string{{"ID", "Bug Title", "Keyword"}}))
	require.NoError(t, sink.WriteSheet(path, "Summary", [][]string{{"x"}}))

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Summary", "Details"}, wb.GetSheetList())
	rows, err := wb.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x"}}, rows, "rewriting a sheet drops its old rows")
	rows, err = wb.GetRows("Details")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ID", "Bug Title", "Keyword"}}, rows)

	assert.True(t, errors.Is(sink.WriteSheet(path, "", nil), internalErrors.ErrInvalidInput))
}

func TestTopTerms(t *testing.T) {
	out := TopTerms(10, []model.TermFrequency{{Term: "error", DocFrequency: 2}, {Term: "login", DocFrequency: 2}})
	assert.Equal(t, ">>> top 10 terms: \n1:error(2);\n2:login(2);", out)
}

func TestTermDistribution(t *testing.T) {
	out := TermDistribution(model.CoverageReport{
		TotalDocs: 3,
		Rows: []model.CoverageRow{
			{Rank: 1, Term: "login", DocFrequency: 2, NewlyCovered: 2, CumulativeCoverage: 2.0 / 3.0},
			{Rank: 2, Term: "error", DocFrequency: 2, NewlyCovered: 1, CumulativeCoverage: 1},
		},
	})
	assert.Equal(t, "Total terms:2\tTotal Docs:3\n"+separator+
		"NO.\tTerm\tCoverage_New\tCoverage_Total\n"+
		"1\tlogin\t2\t0.667\n"+
		"2\terror\t1\t1.000\n", out)
}

func TestSearchResult(t *testing.T) {
	out := SearchResult(model.SearchResult{
		Query: "login",
		Hits: []model.SearchHit{
			{DocID: 0, Score: 1, Fields: map[string]string{"Ticket Id": "T-1", "Subject": "Login error"}},
		},
	}, []string{"Ticket Id", "Subject"})
	assert.Equal(t, "Search keyword:login\nMatched:1\n0:Score=1;Ticket Id=T-1;Subject=Login error;\n", out)
}

func TestCountMatrix(t *testing.T) {
	out := CountMatrix([]string{"error", "user"}, [][]int{{3, 1}, {0, 4}})
	assert.Equal(t, header()+
		" a  b \t<--Classified as\n"+
		" 3  1 \t|\t4\ta\t=error\n"+
		" 0  4 \t|\t4\tb\t=user\n"+
		"\n\n*** accuracy rate =0.875;error rate =0.125\n", out)

	empty := CountMatrix([]string{"error"}, [][]int{{0}})
	assert.Contains(t, empty, "*** accuracy rate =0.000;error rate =0.000")
}

func TestFloatMatrix(t *testing.T) {
	out := FloatMatrix([]string{"0", "1"}, [][]float64{{1, 0.5}, {0.5, 1}})
	assert.Equal(t, header()+
		"   0    1 \n\n"+
		" 1.000  0.500 \t|\t0\t0\t=0\n"+
		" 0.500  1.000 \t|\t0\t1\t=1\n", out)
}

func TestEvaluationReport(t *testing.T) {
	cm, err := classify.NewConfusionMatrix([]string{"error", "exam"})
	require.NoError(t, err)
	cm.Add("error", "error")
	out := Evaluation(&classify.Evaluation{
		Matrix:    cm,
		Excluded:  2,
		Unlabeled: []classify.Prediction{{DocID: 4, Text: "timer broken", Predicted: "exam"}},
	})
	assert.Contains(t, out, "*** accuracy rate =1.000;error rate =0.000\n")
	assert.Contains(t, out, "=2\n")
	assert.Contains(t, out, "\"timer broken\" is classified as:exam\n")
}

func TestTFIDFModelReport(t *testing.T) {
	positions := vector.NewTermPositions([]string{"error", "login"})
	m := &vector.Model{
		Positions: positions,
		DF:        []int{2, 1},
		TF:        []vector.DocVector{{Positions: positions, Weights: map[int]float64{0: 1}}},
		TFIDF:     []vector.DocVector{{Positions: positions, Weights: map[int]float64{0: 1.5}}},
	}
	out := TFIDFModel(m)
	assert.Contains(t, out, "Term Frequency:\n")
	assert.Contains(t, out, " 2.000  1.000 \t|\t0\t0\t=error\n")
	assert.Contains(t, out, " 1.500  0.000 ")
}

func TestSheetRows(t *testing.T) {
	summary := SummaryRows(model.CoverageReport{
		TotalDocs: 4,
		Rows:      []model.CoverageRow{{Rank: 1, Term: "error", DocFrequency: 2, NewlyCovered: 2, CumulativeCoverage: 0.5}},
	})
	assert.Equal(t, [][]string{
		{"Total keywords:", "1", "Total bug reports:", "4"},
		{"Keyword", "#BugReports", "#NewCovered", "%TotalCovered"},
		{"error", "2", "2", "0.500"},
	}, summary)

	details := DetailRows([]model.KeywordHit{{ID: "T-1", Title: "Login error", Keyword: "error"}})
	assert.Equal(t, [][]string{{"ID", "Bug Title", "Keyword"}, {"T-1", "Login error", "error"}}, details)
}

func TestResultStore(t *testing.T) {
	ctx := context.Background()
	store, err := OpenResultStore(ctx, filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer store.Close()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordRun(ctx, model.AnalysisRun{
		Operation: "top-terms", Field: "Subject", Generation: 2, Documents: 3,
		Summary: "4 terms", StartedAt: base, Duration: 1500 * time.Millisecond,
	}))
	require.NoError(t, store.RecordRun(ctx, model.AnalysisRun{
		ID: "fixed", Operation: "coverage", Field: "Subject", Generation: 2, Documents: 3,
		StartedAt: base.Add(time.Second),
	}))

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "fixed", runs[0].ID, "most recent first")
	assert.Equal(t, "top-terms", runs[1].Operation)
	assert.NotEmpty(t, runs[1].ID)
	assert.Equal(t, uint64(2), runs[1].Generation)
	assert.Equal(t, 1500*time.Millisecond, runs[1].Duration)
	assert.True(t, base.Equal(runs[1].StartedAt))

	runs, err = store.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
