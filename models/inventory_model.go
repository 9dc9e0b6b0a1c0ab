package models

import (
	"fiber-wms/types"

	"gorm.io/gorm"
)

// Inventory is the on-hand stock read model that count snapshots are frozen
// from. This core never mutates it; the external stock-ledger collaborator
// owns its movements.
type Inventory struct {
	gorm.Model
	ID           types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	WhsCode      string            `json:"whs_code"`
	Location     string            `json:"location"`
	ItemId       int               `json:"item_id"`
	ItemCode     string            `json:"item_code"`
	Barcode      string            `json:"barcode"`
	Uom          string            `json:"uom"`
	QtyOnhand    int               `json:"qty_onhand" gorm:"default:0"`
	QtyAvailable int               `json:"qty_available" gorm:"default:0"`
	CreatedBy    int
	UpdatedBy    int
	DeletedBy    int
}
