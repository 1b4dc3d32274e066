// Package spreadsheet reads tabular uploads (CSV and XLSX) into header-keyed
// rows and writes XLSX exports.
package spreadsheet

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// Common parse errors
var (
	// ErrEmptyFile is returned when the upload has no content
	ErrEmptyFile = errors.New("file is empty")

	// ErrInvalidEncoding is returned when a CSV upload is not UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding")

	// ErrMissingHeader is returned when the first row is missing or blank
	ErrMissingHeader = errors.New("file missing header row")

	// ErrNoSheets is returned when a workbook has no worksheets
	ErrNoSheets = errors.New("workbook has no sheets")

	// ErrUnsupportedFormat is returned for extensions other than .csv and .xlsx
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .csv or .xlsx")
)

// Row is one data row keyed by normalised header
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[NormalizeHeader(header)]
}

// GetOrDefault returns the value for a column, or def if blank
func (r *Row) GetOrDefault(header, def string) string {
	if v := r.Get(header); v != "" {
		return v
	}
	return def
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// Sheet is a parsed upload
type Sheet struct {
	Headers []string
	Rows    []*Row
}

// HasHeader checks if a column exists
func (s *Sheet) HasHeader(name string) bool {
	name = NormalizeHeader(name)
	for _, h := range s.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// NormalizeHeader lower-cases and snake-cases a header, so "Part Number"
// and "part_number" address the same column.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "_", "-", "_", ".", "").Replace(h)
	return h
}

// Parse dispatches on the file extension
func Parse(filename string, r io.Reader) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx", ".xlsm":
		return ParseXLSX(r)
	}
	return nil, ErrUnsupportedFormat
}

// build turns raw records (first is the header) into a Sheet. Blank rows are
// skipped; line numbers stay 1-based and count the header.
func build(records [][]string) (*Sheet, error) {
	if len(records) == 0 {
		return nil, ErrMissingHeader
	}
	headers := make([]string, len(records[0]))
	blank := true
	for i, h := range records[0] {
		headers[i] = NormalizeHeader(h)
		if headers[i] != "" {
			blank = false
		}
	}
	if blank {
		return nil, ErrMissingHeader
	}

	sheet := &Sheet{Headers: headers, Rows: make([]*Row, 0, len(records)-1)}
	for n, record := range records[1:] {
		row := &Row{LineNumber: n + 2, Data: make(map[string]string, len(headers))}
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(record) {
				row.Data[h] = strings.TrimSpace(record[i])
			} else {
				row.Data[h] = ""
			}
		}
		if !row.IsEmpty() {
			sheet.Rows = append(sheet.Rows, row)
		}
	}
	return sheet, nil
}
