package spreadsheet

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"
)

// ParseCSV reads a UTF-8 CSV upload. A leading byte order mark is dropped.
func ParseCSV(r io.Reader) (*Sheet, error) {
	br := bufio.NewReader(r)

	bom, err := br.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	const checkSize = 4096
	head, err := br.Peek(checkSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file for encoding validation: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(head) {
		return nil, ErrInvalidEncoding
	}

	reader := csv.NewReader(br)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return build(records)
}
