package models

import (
	"time"

	"fiber-wms/controllers/idgen"

	"gorm.io/gorm"
)

const (
	CountStatusDraft     = "draft"
	CountStatusCounting  = "counting"
	CountStatusSubmitted = "submitted"
	CountStatusCompleted = "completed"
	CountStatusCancelled = "cancelled"
)

const (
	CountScopeWarehouse = "warehouse"
	CountScopeLocation  = "location"
	CountScopeModel     = "model"
)

type CountHeader struct {
	gorm.Model
	ID          int64      `json:"id" gorm:"primary_key"`
	CountNo     string     `json:"count_no" gorm:"unique"`
	WhsCode     string     `json:"whs_code"`
	ScopeType   string     `json:"scope_type"`
	BlindMode   bool       `json:"blind_mode"`
	Status      string     `json:"status" gorm:"default:'draft'"`
	SnapshotAt  *time.Time `json:"snapshot_at"`
	VarianceRef string     `json:"variance_ref"`
	Remarks     string     `json:"remarks"`
	CreatedBy   int
	UpdatedBy   int
	DeletedBy   int

	Lines         []CountLine         `gorm:"foreignKey:CountId;references:ID;constraint:OnDelete:CASCADE" json:"lines"`
	Details       []CountDetail       `gorm:"foreignKey:CountId;references:ID;constraint:OnDelete:CASCADE" json:"details"`
	ZeroLocations []CountZeroLocation `gorm:"foreignKey:CountId;references:ID;constraint:OnDelete:CASCADE" json:"zero_locations"`
}

func (h *CountHeader) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == 0 {
		h.ID = idgen.GenerateID()
	}
	return
}

// CountLine holds the frozen system quantity for one item+location+uom and
// the running counted aggregate. SystemQty is never recomputed after the
// snapshot.
type CountLine struct {
	gorm.Model
	CountId      int64  `json:"count_id" gorm:"index"`
	ItemId       int    `json:"item_id"`
	ItemCode     string `json:"item_code"`
	Location     string `json:"location"`
	Uom          string `json:"uom"`
	TrackingType string `json:"tracking_type"`
	SystemQty    int    `json:"system_qty"`
	CountedQty   int    `json:"counted_qty"`
	DiffQty      int    `json:"diff_qty"`
	Counted      bool   `json:"counted"`
	Zeroed       bool   `json:"zeroed"`
	IsUnlisted   bool   `json:"is_unlisted"`
	Remarks      string `json:"remarks"`
	CreatedBy    int
	UpdatedBy    int
	DeletedBy    int
}

// CountDetail is one raw scan or entry event. Many details aggregate into
// one line's counted quantity.
type CountDetail struct {
	gorm.Model
	CountId      int64  `json:"count_id" gorm:"index"`
	CountLineId  uint   `json:"count_line_id" gorm:"index"`
	ItemCode     string `json:"item_code"`
	Location     string `json:"location"`
	Quantity     int    `json:"quantity"`
	SerialNumber string `json:"serial_number"`
	LotNumber    string `json:"lot_no"`
	IsUnlisted   bool   `json:"is_unlisted"`
	Notes        string `json:"notes"`
	CreatedBy    int
}

// CountZeroLocation is one scoped location that must be explicitly confirmed
// empty of untracked surplus before the count can be submitted.
type CountZeroLocation struct {
	gorm.Model
	CountId     int64      `json:"count_id" gorm:"index"`
	Location    string     `json:"location"`
	Confirmed   bool       `json:"confirmed"`
	ConfirmedBy int        `json:"confirmed_by"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
}
