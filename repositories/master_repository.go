package repositories

import (
	"errors"

	"fiber-wms/models"
	"fiber-wms/wms/wmserr"

	"gorm.io/gorm"
)

// MasterRepository serves active-only master-data lookups for the document
// engines and doubles as the location checker for warning classification.
type MasterRepository struct {
	db *gorm.DB
}

func NewMasterRepository(db *gorm.DB) *MasterRepository {
	return &MasterRepository{db: db}
}

func (r *MasterRepository) ItemByCode(code string) (*models.Item, error) {
	var item models.Item
	if err := r.db.First(&item, "item_code = ? AND is_active = ?", code, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wmserr.NewNotFound("item", code)
		}
		return nil, err
	}
	return &item, nil
}

func (r *MasterRepository) UomByCode(code string) (*models.Uom, error) {
	var uom models.Uom
	if err := r.db.First(&uom, "code = ? AND is_active = ?", code, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wmserr.NewNotFound("uom", code)
		}
		return nil, err
	}
	return &uom, nil
}

func (r *MasterRepository) WarehouseByCode(code string) (*models.Warehouse, error) {
	var whs models.Warehouse
	if err := r.db.First(&whs, "code = ? AND is_active = ?", code, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wmserr.NewNotFound("warehouse", code)
		}
		return nil, err
	}
	return &whs, nil
}

func (r *MasterRepository) PartnerByCode(code string) (*models.Partner, error) {
	var partner models.Partner
	if err := r.db.First(&partner, "code = ? AND is_active = ?", code, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wmserr.NewNotFound("partner", code)
		}
		return nil, err
	}
	return &partner, nil
}

// LocationActive implements warning.LocationChecker. Unknown or inactive
// bins classify as invalid.
func (r *MasterRepository) LocationActive(whsCode, location string) bool {
	var count int64
	err := r.db.Model(&models.Location{}).
		Where("whs_code = ? AND location_code = ? AND is_active = ?", whsCode, location, true).
		Count(&count).Error
	if err != nil {
		return false
	}
	return count > 0
}

// WarehouseDependencies counts open documents that pin a warehouse. A
// warehouse with open receipts or counts cannot be deactivated.
func (r *MasterRepository) WarehouseDependencies(code string) (int64, error) {
	var receipts int64
	err := r.db.Model(&models.ReceiptHeader{}).
		Where("whs_code = ? AND status NOT IN ?", code, []string{models.ReceiptStatusCompleted, models.ReceiptStatusRejected}).
		Count(&receipts).Error
	if err != nil {
		return 0, err
	}

	var counts int64
	err = r.db.Model(&models.CountHeader{}).
		Where("whs_code = ? AND status NOT IN ?", code, []string{models.CountStatusCompleted, models.CountStatusCancelled}).
		Count(&counts).Error
	if err != nil {
		return 0, err
	}

	return receipts + counts, nil
}

// DeactivateWarehouse fails while open documents still reference the
// warehouse.
func (r *MasterRepository) DeactivateWarehouse(code string, actor int) error {
	deps, err := r.WarehouseDependencies(code)
	if err != nil {
		return err
	}
	if deps > 0 {
		return wmserr.NewValidation("code", "warehouse has open documents and cannot be deactivated")
	}

	res := r.db.Model(&models.Warehouse{}).
		Where("code = ? AND is_active = ?", code, true).
		Updates(map[string]interface{}{"is_active": false, "updated_by": actor})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return wmserr.NewNotFound("warehouse", code)
	}
	return nil
}
