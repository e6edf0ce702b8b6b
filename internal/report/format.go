package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gcbaptista/go-bug-analysis/internal/classify"
	"github.com/gcbaptista/go-bug-analysis/internal/vector"
	"github.com/gcbaptista/go-bug-analysis/model"
)

const separator = "----------------------------------------------------------\n"

// TopTerms renders a top-N list as ">>> top N terms: " followed by one
// "rank:term(freq);" line per term.
func TopTerms(n int, terms []model.TermFrequency) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, ">>> top %d terms: ", n)
	for i, tf := range terms {
		fmt.Fprintf(&sb, "\n%d:%s(%d);", i+1, tf.Term, tf.DocFrequency)
	}
	return sb.String()
}

// TermDistribution renders a coverage trace as a tab separated table.
func TermDistribution(r model.CoverageReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total terms:%d\tTotal Docs:%d\n", len(r.Rows), r.TotalDocs)
	sb.WriteString(separator)
	sb.WriteString("NO.\tTerm\tCoverage_New\tCoverage_Total\n")
	for _, row := range r.Rows {
		fmt.Fprintf(&sb, "%d\t%s\t%d\t%.3f\n", row.Rank, row.Term, row.NewlyCovered, row.CumulativeCoverage)
	}
	return sb.String()
}

// SearchResult renders matches with the requested display fields.
func SearchResult(res model.SearchResult, fields []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Search keyword:%s\n", res.Query)
	fmt.Fprintf(&sb, "Matched:%d\n", len(res.Hits))
	for i, hit := range res.Hits {
		fmt.Fprintf(&sb, "%d:Score=%s;", i, strconv.FormatFloat(hit.Score, 'f', -1, 64))
		for _, f := range fields {
			fmt.Fprintf(&sb, "%s=%s;", f, hit.Fields[f])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func header() string {
	return separator + separator + "Confusion Matrix:\n" + separator
}

func letter(i int) string {
	return string(rune('a' + i%26))
}

// CountMatrix renders an integer matrix with lettered columns, row sums and the
// accuracy and error rate derived from its diagonal.
func CountMatrix(labels []string, counts [][]int) string {
	var sb strings.Builder
	sb.WriteString(header())
	for j := range labels {
		fmt.Fprintf(&sb, " %s ", letter(j))
	}
	sb.WriteString("\t<--Classified as\n")

	correct, wrong := 0, 0
	for i, label := range labels {
		sum := 0
		for j := range labels {
			c := 0
			if i < len(counts) && j < len(counts[i]) {
				c = counts[i][j]
			}
			fmt.Fprintf(&sb, " %d ", c)
			sum += c
			if i == j {
				correct += c
			} else {
				wrong += c
			}
		}
		fmt.Fprintf(&sb, "\t|\t%d\t%s\t=%s\n", sum, letter(i), label)
	}

	acc, errRate := 0.0, 0.0
	if total := correct + wrong; total > 0 {
		acc = float64(correct) / float64(total)
		errRate = float64(wrong) / float64(total)
	}
	fmt.Fprintf(&sb, "\n\n*** accuracy rate =%.3f;error rate =%.3f\n", acc, errRate)
	return sb.String()
}

// FloatMatrix renders a real-valued matrix with numbered columns and 3 decimals.
func FloatMatrix(labels []string, values [][]float64) string {
	var sb strings.Builder
	sb.WriteString(header())
	for j := range labels {
		fmt.Fprintf(&sb, "   %d ", j)
	}
	sb.WriteString("\n\n")
	for i, row := range values {
		for _, v := range row {
			fmt.Fprintf(&sb, " %.3f ", v)
		}
		if i < len(labels) {
			fmt.Fprintf(&sb, "\t|\t0\t%d\t=%s\n", i, labels[i])
		} else {
			sb.WriteString("\t|\t0\t\n")
		}
	}
	return sb.String()
}

// Similarity renders a document similarity matrix labelled by document id.
func Similarity(res *vector.SimilarityResult) string {
	labels := make([]string, len(res.DocIDs))
	for i, id := range res.DocIDs {
		labels[i] = strconv.Itoa(id)
	}
	return FloatMatrix(labels, res.Matrix)
}

// Evaluation renders the confusion matrix of a classifier run followed by the
// predictions made for unlabelled documents.
func Evaluation(ev *classify.Evaluation) string {
	var sb strings.Builder
	sb.WriteString(CountMatrix(ev.Matrix.Labels, ev.Matrix.Counts))
	if ev.Excluded > 0 {
		fmt.Fprintf(&sb, "*** excluded (label outside the label set) =%d\n", ev.Excluded)
	}
	for _, p := range ev.Unlabeled {
		fmt.Fprintf(&sb, "%q is classified as:%s\n", p.Text, p.Predicted)
	}
	return sb.String()
}

// TFIDFModel renders the term frequency matrix, the document frequency vector
// and the TF-IDF weights of a model.
func TFIDFModel(m *vector.Model) string {
	terms := m.Positions.Terms()
	var sb strings.Builder

	tf := make([][]float64, len(m.TF))
	for i, v := range m.TF {
		tf[i] = v.Dense()
	}
	sb.WriteString("Term Frequency:\n")
	sb.WriteString(FloatMatrix(terms, tf))

	df := make([]float64, len(m.DF))
	for i, d := range m.DF {
		df[i] = float64(d)
	}
	sb.WriteString("Doc Frequency:\n")
	sb.WriteString(FloatMatrix(terms, [][]float64{df}))

	weights := make([][]float64, len(m.TFIDF))
	for i, v := range m.TFIDF {
		weights[i] = v.Dense()
	}
	sb.WriteString("TF-IDF:\n")
	sb.WriteString(FloatMatrix(terms, weights))
	return sb.String()
}

// SummaryRows lays out a keyword coverage report for a spreadsheet.
func SummaryRows(r model.CoverageReport) [][]string {
	rows := [][]string{
		{"Total keywords:", strconv.Itoa(len(r.Rows)), "Total bug reports:", strconv.Itoa(r.TotalDocs)},
		{"Keyword", "#BugReports", "#NewCovered", "%TotalCovered"},
	}
	for _, row := range r.Rows {
		rows = append(rows, []string{
			row.Term,
			strconv.Itoa(row.DocFrequency),
			strconv.Itoa(row.NewlyCovered),
			strconv.FormatFloat(row.CumulativeCoverage, 'f', 3, 64),
		})
	}
	return rows
}

// DetailRows lays out keyword hits for a spreadsheet.
func DetailRows(hits []model.KeywordHit) [][]string {
	rows := [][]string{{"ID", "Bug Title", "Keyword"}}
	for _, h := range hits {
		rows = append(rows, []string{h.ID, h.Title, h.Keyword})
	}
	return rows
}
