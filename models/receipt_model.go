package models

import (
	"fiber-wms/controllers/idgen"

	"gorm.io/gorm"
)

// Receipt statuses. Draft documents may still edit their line set; once the
// document leaves draft the line set is frozen and only capture rows
// (ReceiptActual) may be appended, and only while receiving.
const (
	ReceiptStatusDraft     = "draft"
	ReceiptStatusReceiving = "receiving"
	ReceiptStatusSubmitted = "submitted"
	ReceiptStatusCompleted = "completed"
	ReceiptStatusRejected  = "rejected"
)

// Receipt types. PO and return receipts require a partner plus reference,
// transfers require a source warehouse plus reference, manual receipts
// forbid both.
const (
	ReceiptTypePO       = "po"
	ReceiptTypeTransfer = "transfer"
	ReceiptTypeReturn   = "return"
	ReceiptTypeManual   = "manual"
)

type ReceiptHeader struct {
	gorm.Model
	ID            int64  `json:"id" gorm:"primary_key"`
	ReceiptNo     string `json:"receipt_no" gorm:"unique"`
	Type          string `json:"type"`
	WhsCode       string `json:"whs_code"`
	PartnerId     int    `json:"partner_id"`
	PartnerCode   string `json:"partner_code"`
	SourceWhsCode string `json:"source_whs_code"`
	RefNo         string `json:"ref_no"`
	ExpectedDate  string `json:"expected_date"`
	Remarks       string `json:"remarks_header"`
	Status        string `json:"status" gorm:"default:'draft'"`
	CreatedBy     int
	UpdatedBy     int
	DeletedBy     int

	Lines []ReceiptLine `gorm:"foreignKey:ReceiptId;references:ID;constraint:OnDelete:CASCADE" json:"lines"`
}

func (h *ReceiptHeader) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == 0 {
		h.ID = idgen.GenerateID()
	}
	return
}

// ReceiptLine is a planned line of a receipt. TrackingType is inherited from
// the item at line creation time and is never edited independently.
type ReceiptLine struct {
	gorm.Model
	ReceiptId    int64  `json:"receipt_id" gorm:"index"`
	ItemId       int    `json:"item_id"`
	ItemCode     string `json:"item_code"`
	Uom          string `json:"uom"`
	TrackingType string `json:"tracking_type"`
	QtyPlanned   int    `json:"qty_planned"`
	QtyReceived  int    `json:"qty_received"`
	QtyRemaining int    `json:"qty_remaining"`
	Location     string `json:"location"`
	Remarks      string `json:"remarks"`
	SerialList   string `json:"serial_list"`
	LotNumber    string `json:"lot_no"`
	MfgDate      string `json:"mfg_date"`
	ExpDate      string `json:"exp_date"`
	CreatedBy    int
	UpdatedBy    int
	DeletedBy    int

	Actuals []ReceiptActual `gorm:"foreignKey:ReceiptLineId;references:ID;constraint:OnDelete:CASCADE" json:"actuals"`
}

// ReceiptActual is one physical capture event. Rows are immutable once
// created; corrections are new rows, never in-place edits.
type ReceiptActual struct {
	gorm.Model
	ReceiptId     int64  `json:"receipt_id" gorm:"index"`
	ReceiptLineId uint   `json:"receipt_line_id" gorm:"index"`
	ItemCode      string `json:"item_code"`
	Quantity      int    `json:"quantity"`
	Location      string `json:"location"`
	SerialNumber  string `json:"serial_number"`
	LotNumber     string `json:"lot_no"`
	MfgDate       string `json:"mfg_date"`
	ExpDate       string `json:"exp_date"`
	Notes         string `json:"notes"`
	CreatedBy     int
}
