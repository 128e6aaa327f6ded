package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes items as a single-sheet workbook with a bold header row.
// Amounts stay numeric cells.
func WriteXLSX[T any](w io.Writer, t Table[T], items []T) error {
	const op = "WriteXLSX"

	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Name
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("%s: failed to name sheet: %w", op, err)
	}

	headers := t.Headers()
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("%s: failed to write headers: %w", op, err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return fmt.Errorf("%s: failed to create header style: %w", op, err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, style); err != nil {
		return fmt.Errorf("%s: failed to style headers: %w", op, err)
	}

	for i, row := range t.Rows(items) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s: failed to write row %d: %w", op, i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%s: failed to generate workbook: %w", op, err)
	}
	return nil
}
