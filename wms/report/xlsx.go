package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

var xlsxColumns = []string{"Item Code", "UoM", "Tracking", "Location", "Expected Qty", "Actual Qty", "Variance", "Unlisted", "Note"}

// ToXLSX renders the report as a spreadsheet for download.
func (r *Report) ToXLSX() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	if err := f.SetCellValue(sheet, "A1", fmt.Sprintf("Variance Report %s (%s %s)", r.Reference, r.DocType, r.DocNo)); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheet, "A2", "Generated: "+r.GeneratedAt.Format("2006-01-02 15:04:05")); err != nil {
		return nil, err
	}

	headerRow := 4
	for i, col := range xlsxColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return nil, err
		}
	}

	for i, line := range r.Lines {
		row := headerRow + 1 + i
		values := []interface{}{
			line.ItemCode, line.Uom, line.Tracking, line.Location,
			line.Expected, line.Actual, line.Variance, line.IsUnlisted, line.Note,
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	totalRow := headerRow + len(r.Lines) + 2
	if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "Totals"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("E%d", totalRow), r.TotalExpected); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("F%d", totalRow), r.TotalActual); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("G%d", totalRow), r.TotalVariance); err != nil {
		return nil, err
	}

	return f, nil
}
