package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"invoicekit/internal/logger"
)

// DefaultSheet is the worksheet name used when none is given.
const DefaultSheet = "Line_Items"

// WriteXLSX writes t as a single-sheet workbook to w.
func WriteXLSX(w io.Writer, sheet string, t Table) error {
	const op = "WriteXLSX"
	log := logger.WithComponent("export")

	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	// the default workbook starts with "Sheet1"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("%s: rename sheet: %w", op, err)
	}

	for i, h := range t.Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("%s: header %s: %w", op, cell, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil && t.Width() > 0 {
		last, _ := excelize.CoordinatesToCellName(t.Width(), 1)
		_ = f.SetCellStyle(sheet, "A1", last, bold)
	}

	for r, row := range t.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("%s: cell %s: %w", op, cell, err)
			}
		}
	}

	if t.Width() > 0 {
		lastCol, _ := excelize.ColumnNumberToName(t.Width())
		_ = f.SetColWidth(sheet, "A", lastCol, 16)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("%s: write workbook: %w", op, err)
	}

	log.Info().
		Str("sheet", sheet).
		Int("rows", len(t.Rows)).
		Msg("Workbook written")
	return nil
}
