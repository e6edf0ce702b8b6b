// Package report renders analysis results as text reports and spreadsheets and
// keeps a history of analysis runs.
package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	internalErrors "github.com/gcbaptista/go-bug-analysis/internal/errors"
)

// Report file names written under the report directory.
const (
	TopTermsFile         = "TopTerms.txt"
	SearchResultFile     = "SearchResult.txt"
	PairwiseAnalysisFile = "PairwiseAnalysis.txt"
	DocSimilarityFile    = "DocSimilarity.txt"
	TermDistributionFile = "TermDistribution.txt"
	ClassificationFile   = "NaiveBayesClassification.txt"
	TFIDFModelFile       = "TFIDFModel.txt"
)

// FileSink writes reports to the local filesystem.
type FileSink struct{}

// NewFileSink creates a FileSink.
func NewFileSink() *FileSink {
	return &FileSink{}
}

// WriteText writes content to path, creating parent directories. With overwrite an
// existing file is removed first; without it an existing file is a ReportExistsError.
func (s *FileSink) WriteText(content, path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return internalErrors.NewReportExistsError(path)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing report %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat report %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return internalErrors.NewReportExistsError(path)
		}
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return f.Close()
}

// WriteSheet replaces the content of one sheet of the workbook at path, creating
// the workbook when it does not exist. Other sheets are left untouched.
func (s *FileSink) WriteSheet(path, sheet string, rows [][]string) error {
	if sheet == "" {
		return internalErrors.NewValidationError("sheet", "sheet name cannot be empty")
	}

	wb, created, err := openOrCreateWorkbook(path)
	if err != nil {
		return err
	}
	defer wb.Close()

	if err := prepareSheet(wb, sheet, created); err != nil {
		return fmt.Errorf("failed to prepare sheet '%s' in %s: %w", sheet, path, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of sheet '%s': %w", i+1, sheet, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create workbook directory: %w", err)
	}
	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func openOrCreateWorkbook(path string) (*excelize.File, bool, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return wb, false, nil
}

func prepareSheet(wb *excelize.File, sheet string, created bool) error {
	if created {
		return wb.SetSheetName(wb.GetSheetName(0), sheet)
	}

	idx, err := wb.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx < 0 {
		_, err := wb.NewSheet(sheet)
		return err
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return err
	}
	for r := len(rows); r >= 1; r-- {
		if err := wb.RemoveRow(sheet, r); err != nil {
			return err
		}
	}
	return nil
}
