package repositories

import (
	"errors"

	"fiber-wms/models"
	"fiber-wms/wms/wmserr"

	"gorm.io/gorm"
)

type UomRepository struct {
	DB *gorm.DB
}

func NewUomRepository(DB *gorm.DB) *UomRepository {
	return &UomRepository{DB: DB}
}

type UomConversionResult struct {
	ItemCode     string  `json:"item_code"`
	FromUom      string  `json:"from_uom"`
	FromQty      int     `json:"from_qty"`
	ToUom        string  `json:"to_uom"`
	QtyConverted float64 `json:"qty_converted"`
}

// ConversionQty converts a quantity into the item's base UoM. Only the
// forward rule is stored; when the requested direction matches the stored
// inverse, the rate is derived as 1/rate rather than looked up.
func (r *UomRepository) ConversionQty(itemCode string, fromQty int, fromUom string) (UomConversionResult, error) {
	var item models.Item
	err := r.DB.Where("item_code = ? AND is_active = ?", itemCode, true).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UomConversionResult{}, wmserr.NewNotFound("item", itemCode)
		}
		return UomConversionResult{}, err
	}

	if fromUom == item.Uom {
		return UomConversionResult{
			ItemCode:     itemCode,
			FromUom:      fromUom,
			ToUom:        item.Uom,
			FromQty:      fromQty,
			QtyConverted: float64(fromQty),
		}, nil
	}

	var conversion models.UomConversion
	err = r.DB.Where("item_code = ? AND from_uom = ? AND to_uom = ?", itemCode, fromUom, item.Uom).
		First(&conversion).Error
	if err == nil {
		return UomConversionResult{
			ItemCode:     itemCode,
			FromUom:      fromUom,
			ToUom:        item.Uom,
			FromQty:      fromQty,
			QtyConverted: float64(fromQty) * conversion.ConversionRate,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return UomConversionResult{}, err
	}

	// derive the inverse from the stored forward rule
	err = r.DB.Where("item_code = ? AND from_uom = ? AND to_uom = ?", itemCode, item.Uom, fromUom).
		First(&conversion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UomConversionResult{}, errors.New("failed to convert UOM for item: " + itemCode +
				". Conversion from " + fromUom + " to " + item.Uom + " not found")
		}
		return UomConversionResult{}, err
	}
	if conversion.ConversionRate == 0 {
		return UomConversionResult{}, errors.New("conversion rate for item " + itemCode + " is zero")
	}

	return UomConversionResult{
		ItemCode:     itemCode,
		FromUom:      fromUom,
		ToUom:        item.Uom,
		FromQty:      fromQty,
		QtyConverted: float64(fromQty) / conversion.ConversionRate,
	}, nil
}

func (r *UomRepository) CheckUomConversionExists(itemCode string, fromUom string) (bool, error) {
	var conversion models.UomConversion
	err := r.DB.Where("item_code = ? AND (from_uom = ? OR to_uom = ?)", itemCode, fromUom, fromUom).
		First(&conversion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errors.New("UOM conversion not found for item: " + itemCode +
				" from UoM: " + fromUom)
		}
		return false, err
	}
	return true, nil
}
