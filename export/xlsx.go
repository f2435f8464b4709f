// Package export writes report tables as .xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/balcao/backend/reports"
)

const dateFormat = "dd/mm/yyyy hh:mm"

// WriteXLSX renders t on a single sheet: a header row, one row per table
// row and, when footer is non-empty, a totals row below a blank line. Dates
// get a dd/mm/yyyy format; numbers are written raw.
func WriteXLSX(w io.Writer, sheet string, t reports.Table, footer []any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if len(t.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return fmt.Errorf("header style: %w", err)
		}
	}

	dates, err := f.NewStyle(&excelize.Style{CustomNumFmt: stringPtr(dateFormat)})
	if err != nil {
		return fmt.Errorf("date style: %w", err)
	}
	for i, cells := range t.Rows {
		row := i + 2
		if err := setRow(f, sheet, row, cells); err != nil {
			return err
		}
		for col, v := range cells {
			if _, ok := v.(time.Time); !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellStyle(sheet, cell, cell, dates); err != nil {
				return fmt.Errorf("date style: %w", err)
			}
		}
	}

	if len(footer) > 0 {
		if err := setRow(f, sheet, len(t.Rows)+3, footer); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	return nil
}

func stringPtr(s string) *string { return &s }
