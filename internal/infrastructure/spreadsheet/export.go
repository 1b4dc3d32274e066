package spreadsheet

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Table is one worksheet of an export
type Table struct {
	Name    string
	Headers []string
	Rows    [][]any
	// Footer rows are written after a blank line
	Footer [][]any
}

// WriteWorkbook writes the tables as worksheets of one XLSX file, in order.
// decimal.Decimal cells are written as numbers.
func WriteWorkbook(w io.Writer, tables ...Table) error {
	if len(tables) == 0 {
		return ErrNoSheets
	}
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		name := t.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}

		line := 1
		if err := writeRow(f, name, line, toAny(t.Headers)); err != nil {
			return err
		}
		for _, row := range t.Rows {
			line++
			if err := writeRow(f, name, line, row); err != nil {
				return err
			}
		}
		if len(t.Footer) > 0 {
			line++
		}
		for _, row := range t.Footer {
			line++
			if err := writeRow(f, name, line, row); err != nil {
				return err
			}
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, line int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, line)
		if err != nil {
			return err
		}
		if d, ok := v.(decimal.Decimal); ok {
			v = d.InexactFloat64()
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatAmount renders an amount with two decimals and locale digit grouping
func FormatAmount(d decimal.Decimal) string {
	return inr.Sprintf("%.2f", d.Round(2).InexactFloat64())
}
