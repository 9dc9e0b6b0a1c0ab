package models

import (
	"gorm.io/gorm"
)

type Warehouse struct {
	gorm.Model
	Code      string `json:"code" gorm:"unique"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

// Item is the product master. TrackingType governs what identity metadata a
// physical capture of this item must carry.
type Item struct {
	gorm.Model
	ItemCode     string `json:"item_code" gorm:"unique"`
	ItemName     string `json:"item_name"`
	Barcode      string `json:"barcode"`
	Uom          string `json:"uom"`
	TrackingType string `json:"tracking_type" gorm:"default:'none'"`
	Group        string `json:"group"`
	Category     string `json:"category"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
	CreatedBy    int
	UpdatedBy    int
	DeletedBy    int
}

type Uom struct {
	gorm.Model
	Code      string `json:"code" gorm:"unique"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

// UomConversion stores only the forward rule. The inverse is derived as
// 1/multiplier, never persisted as a second row.
type UomConversion struct {
	gorm.Model
	ItemCode       string  `json:"item_code"`
	FromUom        string  `json:"from_uom"`
	ToUom          string  `json:"to_uom"`
	ConversionRate float64 `json:"conversion_rate"`
	IsBase         bool    `json:"is_base"`
	CreatedBy      int
	UpdatedBy      int
	DeletedBy      int
}

// Partner is a supplier or customer counterpart for PO and return receipts.
type Partner struct {
	gorm.Model
	Code      string `json:"code" gorm:"unique"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Address   string `json:"address"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

type Location struct {
	gorm.Model
	WhsCode      string `json:"whs_code" gorm:"index"`
	LocationCode string `json:"location_code" gorm:"unique"`
	Row          string `json:"row"`
	Bay          string `json:"bay"`
	Level        string `json:"level"`
	Bin          string `json:"bin"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
	CreatedBy    int
	UpdatedBy    int
	DeletedBy    int
}
