package receiving

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fiber-wms/models"
	"fiber-wms/wms/wmserr"
)

// Receipt line interchange columns. Import carries identity pre-declarations
// (serials, lot metadata); export carries the planned tuple only.
var (
	ImportColumns = []string{"model_code", "uom_code", "tracking_type", "qty_planned", "note", "serial_list", "lot_no", "mfg_date", "exp_date"}
	ExportColumns = []string{"model_code", "uom_code", "tracking_type", "qty_planned", "note"}
)

const serialSeparator = ";"

func joinSerials(serials []string) string {
	return strings.Join(serials, serialSeparator)
}

func splitSerials(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, serialSeparator)
}

// ParseLineRow converts one import row into a LineInput. Unknown model or
// uom codes return a NotFoundError so the caller can drop the row without
// failing the batch.
func ParseLineRow(rec []string, master MasterData) (LineInput, error) {
	if len(rec) < 4 {
		return LineInput{}, wmserr.NewValidation("row", "expected at least 4 columns")
	}
	get := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	itemCode := get(0)
	uomCode := get(1)

	if _, err := master.ItemByCode(itemCode); err != nil {
		return LineInput{}, err
	}
	if _, err := master.UomByCode(uomCode); err != nil {
		return LineInput{}, err
	}

	qty, err := strconv.Atoi(get(3))
	if err != nil || qty <= 0 {
		return LineInput{}, wmserr.NewValidation("qty_planned", fmt.Sprintf("invalid planned quantity %q", get(3)))
	}

	return LineInput{
		ItemCode:   itemCode,
		UomCode:    uomCode,
		QtyPlanned: qty,
		Note:       get(4),
		SerialList: splitSerials(get(5)),
		LotNumber:  get(6),
		MfgDate:    get(7),
		ExpDate:    get(8),
	}, nil
}

// ImportLinesCSV reads the import schema. Rows with unknown model/uom codes
// are dropped and reported, not fatal to the batch.
func ImportLinesCSV(r io.Reader, master MasterData) (lines []LineInput, dropped []string, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, wmserr.NewValidation("file", "failed to parse CSV: "+err.Error())
	}
	if len(records) < 2 {
		return nil, nil, wmserr.NewValidation("file", "file must contain a header and at least one data row")
	}

	for i, rec := range records[1:] {
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

// ExportLinesCSV writes the export schema for a receipt's lines.
func ExportLinesCSV(w io.Writer, lines []models.ReceiptLine) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportColumns); err != nil {
		return err
	}
	for _, line := range lines {
		rec := []string{
			line.ItemCode,
			line.Uom,
			line.TrackingType,
			strconv.Itoa(line.QtyPlanned),
			line.Remarks,
		}
		if err := writer.Write(rec); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
