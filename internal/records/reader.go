// Package records reads bug reports from tabular files (CSV or Excel workbooks).
// The first row of every table names the columns.
package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	internalErrors "github.com/gcbaptista/go-bug-analysis/internal/errors"
	"github.com/gcbaptista/go-bug-analysis/model"
)

// Reader reads tabular record files. The zero value is ready to use.
type Reader struct {
	// Sheets restricts workbook reading to the named sheets; empty reads all of them.
	Sheets []string
}

// NewReader returns a Reader over every sheet of a workbook.
func NewReader() *Reader {
	return &Reader{}
}

// ReadRecords returns the data rows of path as records together with the column
// names in first-seen order. Cells missing from short rows are "".
func (r *Reader) ReadRecords(path string) ([]model.Record, []string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return readCSVRecords(path)
	case ".xlsx", ".xlsm":
		return r.readWorkbookRecords(path)
	default:
		return nil, nil, internalErrors.NewUnsupportedFormatError(path, ext)
	}
}

// ReadColumn returns the non-blank values of one column, header row included.
// sheet is ignored for CSV files; an empty sheet means the first sheet of a workbook.
func (r *Reader) ReadColumn(path, sheet string, column int) ([]string, error) {
	if column < 0 {
		return nil, internalErrors.NewValidationError("column", "column index cannot be negative")
	}

	var rows [][]string
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rows, err = readCSVRows(path)
	case ".xlsx", ".xlsm":
		rows, err = readSheetRows(path, sheet)
	default:
		return nil, internalErrors.NewUnsupportedFormatError(path, ext)
	}
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if column >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[column]); v != "" {
			values = append(values, v)
		}
	}
	return values, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, internalErrors.NewSourceError(path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, internalErrors.NewSourceError(path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readCSVRecords(path string) ([]model.Record, []string, error) {
	rows, err := readCSVRows(path)
	if err != nil {
		return nil, nil, err
	}
	columns := newColumnSet()
	return toRecords(rows, columns), columns.names, nil
}

func (r *Reader) readWorkbookRecords(path string) ([]model.Record, []string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, internalErrors.NewSourceError(path, err)
	}
	defer wb.Close()

	sheets := r.Sheets
	if len(sheets) == 0 {
		sheets = wb.GetSheetList()
	}

	columns := newColumnSet()
	records := make([]model.Record, 0)
	for _, sheet := range sheets {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return nil, nil, internalErrors.NewSourceError(path, fmt.Errorf("sheet '%s': %w", sheet, err))
		}
		records = append(records, toRecords(rows, columns)...)
	}
	return records, columns.names, nil
}

func readSheetRows(path, sheet string) ([][]string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, internalErrors.NewSourceError(path, err)
	}
	defer wb.Close()

	if sheet == "" {
		list := wb.GetSheetList()
		if len(list) == 0 {
			return nil, nil
		}
		sheet = list[0]
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, internalErrors.NewSourceError(path, fmt.Errorf("sheet '%s': %w", sheet, err))
	}
	return rows, nil
}

// columnSet collects column names in first-seen order across tables.
type columnSet struct {
	names []string
	seen  map[string]struct{}
}

func newColumnSet() *columnSet {
	return &columnSet{names: make([]string, 0), seen: make(map[string]struct{})}
}

func (c *columnSet) add(name string) {
	if _, ok := c.seen[name]; ok {
		return
	}
	c.seen[name] = struct{}{}
	c.names = append(c.names, name)
}

// toRecords turns a header row plus data rows into records. Blank header cells
// are skipped, as are rows whose cells are all blank.
func toRecords(rows [][]string, columns *columnSet) []model.Record {
	if len(rows) == 0 {
		return nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
		if header[i] != "" {
			columns.add(header[i])
		}
	}

	out := make([]model.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rec := make(model.Record, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
