package warning

import (
	"fmt"

	"fiber-wms/wms/tracking"
)

// Warning types raised over receipt lines. Quantity variances are advisory
// and resolved by the approver; data-integrity violations always block
// approval.
const (
	TypeOverReceipt      = "over_receipt"
	TypeUnderReceipt     = "under_receipt"
	TypeDuplicateBarcode = "duplicate_barcode"
	TypeMissingLotInfo   = "missing_lot_info"
	TypeInvalidBin       = "invalid_bin"
)

// Warning is recomputed from current line state, never persisted on its own.
type Warning struct {
	Type     string `json:"type"`
	LineID   uint   `json:"line_id"`
	ItemCode string `json:"item_code"`
	Message  string `json:"message"`
	Blocking bool   `json:"blocking"`
}

// Capture mirrors one actual record for classification.
type Capture struct {
	Quantity     int
	Location     string
	SerialNumber string
	LotNumber    string
	MfgDate      string
	ExpDate      string
}

// LineState is the classifier's view of one receipt line.
type LineState struct {
	LineID       uint
	ItemCode     string
	TrackingType tracking.Type
	Location     string
	QtyPlanned   int
	QtyReceived  int
	Captures     []Capture
}

// LocationChecker resolves whether a bin exists and is active in a warehouse.
type LocationChecker interface {
	LocationActive(whsCode, location string) bool
}

type Classifier struct {
	locations LocationChecker
}

func NewClassifier(locations LocationChecker) *Classifier {
	return &Classifier{locations: locations}
}

// Classify evaluates every line of a document and returns the full warning
// set, blocking and advisory alike.
func (c *Classifier) Classify(whsCode string, lines []LineState) []Warning {
	var warnings []Warning

	// serial -> line of first occurrence, for document-wide duplicate checks
	seenSerials := map[string]uint{}

	for _, line := range lines {
		if line.QtyReceived > line.QtyPlanned {
			warnings = append(warnings, Warning{
				Type:     TypeOverReceipt,
				LineID:   line.LineID,
				ItemCode: line.ItemCode,
				Message:  fmt.Sprintf("%s: received %d exceeds planned %d", line.ItemCode, line.QtyReceived, line.QtyPlanned),
				Blocking: false,
			})
		}
		if line.QtyReceived < line.QtyPlanned {
			warnings = append(warnings, Warning{
				Type:     TypeUnderReceipt,
				LineID:   line.LineID,
				ItemCode: line.ItemCode,
				Message:  fmt.Sprintf("%s: received %d is short of planned %d", line.ItemCode, line.QtyReceived, line.QtyPlanned),
				Blocking: false,
			})
		}

		if line.Location != "" && !c.locations.LocationActive(whsCode, line.Location) {
			warnings = append(warnings, Warning{
				Type:     TypeInvalidBin,
				LineID:   line.LineID,
				ItemCode: line.ItemCode,
				Message:  fmt.Sprintf("%s: bin %q is not an active location in warehouse %s", line.ItemCode, line.Location, whsCode),
				Blocking: true,
			})
		}

		for _, capture := range line.Captures {
			if line.TrackingType == tracking.TypeSerial && capture.SerialNumber != "" {
				if _, dup := seenSerials[capture.SerialNumber]; dup {
					warnings = append(warnings, Warning{
						Type:     TypeDuplicateBarcode,
						LineID:   line.LineID,
						ItemCode: line.ItemCode,
						Message:  fmt.Sprintf("%s: serial %q captured more than once in this document", line.ItemCode, capture.SerialNumber),
						Blocking: true,
					})
				} else {
					seenSerials[capture.SerialNumber] = line.LineID
				}
			}

			if line.TrackingType == tracking.TypeLot {
				if capture.LotNumber == "" || capture.MfgDate == "" || capture.ExpDate == "" {
					warnings = append(warnings, Warning{
						Type:     TypeMissingLotInfo,
						LineID:   line.LineID,
						ItemCode: line.ItemCode,
						Message:  fmt.Sprintf("%s: lot capture is missing lot number or mfg/exp dates", line.ItemCode),
						Blocking: true,
					})
				}
			}

			if capture.Location != "" && !c.locations.LocationActive(whsCode, capture.Location) {
				warnings = append(warnings, Warning{
					Type:     TypeInvalidBin,
					LineID:   line.LineID,
					ItemCode: line.ItemCode,
					Message:  fmt.Sprintf("%s: captured into %q which is not an active location in warehouse %s", line.ItemCode, capture.Location, whsCode),
					Blocking: true,
				})
			}
		}
	}

	return warnings
}

// Blocking filters the blocking subset.
func Blocking(warnings []Warning) []Warning {
	var out []Warning
	for _, w := range warnings {
		if w.Blocking {
			out = append(out, w)
		}
	}
	return out
}

func HasBlocking(warnings []Warning) bool {
	return len(Blocking(warnings)) > 0
}
