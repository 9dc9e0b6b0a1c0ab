package receiving

import (
	"fmt"
	"io"
	"strings"

	"fiber-wms/wms/wmserr"

	"github.com/xuri/excelize/v2"
)

// ImportLinesXLSX reads the same columns as the CSV import schema from the
// first sheet of a workbook. Row-level errors drop the row, like the CSV
// path.
func ImportLinesXLSX(r io.Reader, master MasterData) (lines []LineInput, dropped []string, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, wmserr.NewValidation("file", "failed to open workbook: "+err.Error())
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, wmserr.NewValidation("file", "failed to read sheet: "+err.Error())
	}
	if len(rows) < 2 {
		return nil, nil, wmserr.NewValidation("file", "file must contain a header and at least one data row")
	}

	for i, rec := range rows[1:] {
		rowNum := i + 2
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		line, rowErr := ParseLineRow(rec, master)
		if rowErr != nil {
			dropped = append(dropped, fmt.Sprintf("row %d: %s", rowNum, rowErr.Error()))
			continue
		}
		lines = append(lines, line)
	}

	return lines, dropped, nil
}
