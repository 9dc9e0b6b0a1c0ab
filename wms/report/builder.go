// Package report derives variance artifacts from finalized receipt and
// count documents. The artifact is what the external stock-ledger
// collaborator consumes; nothing here mutates stock.
package report

import (
	"time"

	"fiber-wms/models"
)

type Line struct {
	LineID     uint   `json:"line_id"`
	ItemCode   string `json:"item_code"`
	Uom        string `json:"uom"`
	Tracking   string `json:"tracking_type"`
	Location   string `json:"location"`
	Expected   int    `json:"expected_qty"`
	Actual     int    `json:"actual_qty"`
	Variance   int    `json:"variance_qty"`
	IsUnlisted bool   `json:"is_unlisted"`
	Note       string `json:"note"`
}

type Report struct {
	Reference     string    `json:"reference"`
	DocType       string    `json:"doc_type"`
	DocNo         string    `json:"doc_no"`
	WhsCode       string    `json:"whs_code"`
	GeneratedAt   time.Time `json:"generated_at"`
	Lines         []Line    `json:"lines"`
	TotalExpected int       `json:"total_expected"`
	TotalActual   int       `json:"total_actual"`
	TotalVariance int       `json:"total_variance"`
	VarianceLines int       `json:"variance_lines"`
}

func (r *Report) addLine(l Line) {
	r.Lines = append(r.Lines, l)
	r.TotalExpected += l.Expected
	r.TotalActual += l.Actual
	r.TotalVariance += l.Variance
	if l.Variance != 0 {
		r.VarianceLines++
	}
}

// FromReceipt builds the variance artifact of a receipt: planned vs received
// per line.
func FromReceipt(doc *models.ReceiptHeader) *Report {
	r := &Report{
		Reference:   "VR-" + doc.ReceiptNo,
		DocType:     "receipt",
		DocNo:       doc.ReceiptNo,
		WhsCode:     doc.WhsCode,
		GeneratedAt: time.Now(),
	}
	for _, line := range doc.Lines {
		r.addLine(Line{
			LineID:   line.ID,
			ItemCode: line.ItemCode,
			Uom:      line.Uom,
			Tracking: line.TrackingType,
			Location: line.Location,
			Expected: line.QtyPlanned,
			Actual:   line.QtyReceived,
			Variance: line.QtyReceived - line.QtyPlanned,
			Note:     line.Remarks,
		})
	}
	return r
}

// FromCount builds the variance artifact of a count: frozen system quantity
// vs counted per line, unlisted finds included.
func FromCount(doc *models.CountHeader) *Report {
	ref := doc.VarianceRef
	if ref == "" {
		ref = "VR-" + doc.CountNo
	}
	r := &Report{
		Reference:   ref,
		DocType:     "count",
		DocNo:       doc.CountNo,
		WhsCode:     doc.WhsCode,
		GeneratedAt: time.Now(),
	}
	for _, line := range doc.Lines {
		r.addLine(Line{
			LineID:     line.ID,
			ItemCode:   line.ItemCode,
			Uom:        line.Uom,
			Tracking:   line.TrackingType,
			Location:   line.Location,
			Expected:   line.SystemQty,
			Actual:     line.CountedQty,
			Variance:   line.DiffQty,
			IsUnlisted: line.IsUnlisted,
			Note:       line.Remarks,
		})
	}
	return r
}
