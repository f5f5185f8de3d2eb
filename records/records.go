// Package records resolves a named business to its row in a tabular dataset
// (CSV, or XLSX through excelize).
package records

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ByLCY/swotdoc/fault"
)

// Field is one column/value pair of a matched row.
type Field struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Record is a matched row with fields in header order.
type Record struct {
	Fields []Field `json:"fields"`
}

// Map returns the record as a column → value mapping.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		m[f.Column] = f.Value
	}
	return m
}

// Get returns the value of column.
func (r Record) Get(column string) (string, bool) {
	for _, f := range r.Fields {
		if f.Column == column {
			return f.Value, true
		}
	}
	return "", false
}

// Description folds the non-blank fields into "column: value" lines.
func (r Record) Description() string {
	lines := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		lines = append(lines, f.Column+": "+f.Value)
	}
	return strings.Join(lines, "\n")
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Find parses csvData (header row first) and returns the first row, in file
// order, holding a field whose lower-cased text contains the lower-cased
// entity. Fields are scanned left to right.
func Find(csvData []byte, entity string) (Record, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(csvData, utf8BOM)))
	// exports carry inch marks and the like unquoted: 12" display
	r.LazyQuotes = true
	header, err := r.Read()
	if err != nil {
		return Record{}, fault.Input(err, "Failed to read CSV headers")
	}
	needle := strings.ToLower(entity)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Record{}, fault.Input(err, "Failed to read CSV record")
		}
		if matches(row, needle) {
			return zip(header, row), nil
		}
	}
	return Record{}, notFound(entity)
}

// FindXLSX applies the Find rules to the first sheet of a workbook.
func FindXLSX(data []byte, entity string) (Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Record{}, fault.Input(err, "Failed to read XLSX file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Record{}, fault.Input(nil, "Failed to read XLSX headers: workbook has no sheet")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Record{}, fault.Input(err, "Failed to read XLSX record")
	}
	if len(rows) == 0 {
		return Record{}, fault.Input(nil, "Failed to read XLSX headers: sheet %q is empty", sheets[0])
	}
	needle := strings.ToLower(entity)
	for _, row := range rows[1:] {
		if matches(row, needle) {
			return zip(rows[0], row), nil
		}
	}
	return Record{}, notFound(entity)
}

// FindFile reads path and dispatches on its extension.
func FindFile(path, entity string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fault.Input(err, "Failed to read CSV file")
	}
	return FindData(filepath.Base(path), data, entity)
}

// FindData dispatches on the extension of name: ".xlsx" goes to FindXLSX,
// anything else is parsed as CSV.
func FindData(name string, data []byte, entity string) (Record, error) {
	if IsWorkbook(name) {
		return FindXLSX(data, entity)
	}
	return Find(data, entity)
}

// IsWorkbook reports whether name carries an Excel workbook extension.
func IsWorkbook(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}

func matches(row []string, needle string) bool {
	for _, field := range row {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// zip pairs header names with row values; spreadsheet rows shorter than the
// header are padded with blanks.
func zip(header, row []string) Record {
	rec := Record{Fields: make([]Field, 0, len(header))}
	for i, col := range header {
		val := ""
		if i < len(row) {
			val = row[i]
		}
		rec.Fields = append(rec.Fields, Field{Column: col, Value: val})
	}
	return rec
}

// NotFoundError reports that no row mentions Entity.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Business '%s' not found in CSV", e.Entity)
}

// IsNotFound reports whether err carries a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func notFound(entity string) error {
	return fault.Input(&NotFoundError{Entity: entity}, "")
}
