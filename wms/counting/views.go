package counting

import (
	"time"

	"fiber-wms/models"
)

// LineView is the read shape of a count line. On blind counts the counter
// role must not see system or variance quantities; those fields are nil for
// restricted readers. The engine always stores both values internally.
type LineView struct {
	ID           uint   `json:"id"`
	ItemCode     string `json:"item_code"`
	Location     string `json:"location"`
	Uom          string `json:"uom"`
	TrackingType string `json:"tracking_type"`
	SystemQty    *int   `json:"system_qty,omitempty"`
	CountedQty   *int   `json:"counted_qty,omitempty"`
	DiffQty      *int   `json:"diff_qty,omitempty"`
	Counted      bool   `json:"counted"`
	Zeroed       bool   `json:"zeroed"`
	IsUnlisted   bool   `json:"is_unlisted"`
	Remarks      string `json:"remarks"`
}

type HeaderView struct {
	ID            int64                      `json:"id"`
	CountNo       string                     `json:"count_no"`
	WhsCode       string                     `json:"whs_code"`
	ScopeType     string                     `json:"scope_type"`
	BlindMode     bool                       `json:"blind_mode"`
	Status        string                     `json:"status"`
	SnapshotAt    *time.Time                 `json:"snapshot_at"`
	VarianceRef   string                     `json:"variance_ref,omitempty"`
	Remarks       string                     `json:"remarks"`
	Lines         []LineView                 `json:"lines"`
	ZeroLocations []models.CountZeroLocation `json:"zero_locations"`
}

// CanSeeVariance reports whether a role may read system and diff quantities
// on a blind count.
func CanSeeVariance(role string) bool {
	switch role {
	case models.RoleReviewer, models.RoleApprover, models.RoleAdmin:
		return true
	}
	return false
}

// ViewFor renders the document for a role, applying the blind-mode contract
// at the read boundary.
func ViewFor(doc *models.CountHeader, role string) HeaderView {
	blind := doc.BlindMode && !CanSeeVariance(role)

	view := HeaderView{
		ID:            doc.ID,
		CountNo:       doc.CountNo,
		WhsCode:       doc.WhsCode,
		ScopeType:     doc.ScopeType,
		BlindMode:     doc.BlindMode,
		Status:        doc.Status,
		SnapshotAt:    doc.SnapshotAt,
		VarianceRef:   doc.VarianceRef,
		Remarks:       doc.Remarks,
		ZeroLocations: doc.ZeroLocations,
	}

	for _, line := range doc.Lines {
		lv := LineView{
			ID:           line.ID,
			ItemCode:     line.ItemCode,
			Location:     line.Location,
			Uom:          line.Uom,
			TrackingType: line.TrackingType,
			Counted:      line.Counted,
			Zeroed:       line.Zeroed,
			IsUnlisted:   line.IsUnlisted,
			Remarks:      line.Remarks,
		}
		counted := line.CountedQty
		if line.Counted {
			lv.CountedQty = &counted
		}
		if !blind {
			system := line.SystemQty
			diff := line.DiffQty
			lv.SystemQty = &system
			if line.Counted {
				lv.DiffQty = &diff
			}
		}
		view.Lines = append(view.Lines, lv)
	}

	return view
}
