// database/migrate.go
package database

import (
	"fiber-wms/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Warehouse{},
		&models.Item{},
		&models.Uom{},
		&models.UomConversion{},
		&models.Partner{},
		&models.Location{},
		&models.Inventory{},
		&models.ReceiptHeader{},
		&models.ReceiptLine{},
		&models.ReceiptActual{},
		&models.CountHeader{},
		&models.CountLine{},
		&models.CountDetail{},
		&models.CountZeroLocation{},
		&models.AuditEvent{},
	)
}
