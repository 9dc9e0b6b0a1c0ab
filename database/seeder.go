// database/seeder.go
package database

import (
	"errors"
	"log"

	"fiber-wms/controllers/idgen"
	"fiber-wms/models"
	"fiber-wms/types"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedUoms(db)
	SeedWarehouses(db)
	SeedLocations(db)
	SeedItems(db)
	SeedPartners(db)
	SeedUsers(db)
	SeedInventory(db)
}

func SeedUoms(db *gorm.DB) {
	uoms := []models.Uom{
		{Code: "PCS", Name: "Pieces"},
		{Code: "BOX", Name: "Box"},
	}

	for _, u := range uoms {
		var existing models.Uom
		if err := db.Where("code = ?", u.Code).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				db.Create(&u)
			}
		}
	}
}

func SeedWarehouses(db *gorm.DB) {
	warehouses := []models.Warehouse{
		{Code: "WH1", Name: "Main Warehouse", IsActive: true},
		{Code: "WH2", Name: "Overflow Warehouse", IsActive: true},
	}

	for _, w := range warehouses {
		var existing models.Warehouse
		if err := db.Where("code = ?", w.Code).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				db.Create(&w)
			}
		}
	}
}

func SeedLocations(db *gorm.DB) {
	locations := []models.Location{
		{WhsCode: "WH1", LocationCode: "A-01-01", Row: "A", Bay: "01", Level: "01", IsActive: true},
		{WhsCode: "WH1", LocationCode: "A-01-02", Row: "A", Bay: "01", Level: "02", IsActive: true},
		{WhsCode: "WH1", LocationCode: "B-01-01", Row: "B", Bay: "01", Level: "01", IsActive: true},
		{WhsCode: "WH2", LocationCode: "C-01-01", Row: "C", Bay: "01", Level: "01", IsActive: true},
	}

	for _, l := range locations {
		var existing models.Location
		if err := db.Where("location_code = ?", l.LocationCode).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				db.Create(&l)
			}
		}
	}
}

func SeedItems(db *gorm.DB) {
	items := []models.Item{
		{ItemCode: "ITEM-SER", ItemName: "Serialized Device", Uom: "PCS", TrackingType: "serial", IsActive: true},
		{ItemCode: "ITEM-LOT", ItemName: "Lot Tracked Consumable", Uom: "PCS", TrackingType: "lot", IsActive: true},
		{ItemCode: "ITEM-STD", ItemName: "Bulk Part", Uom: "PCS", TrackingType: "none", IsActive: true},
	}

	for _, i := range items {
		var existing models.Item
		if err := db.Where("item_code = ?", i.ItemCode).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				db.Create(&i)
			}
		}
	}
}

func SeedPartners(db *gorm.DB) {
	partners := []models.Partner{
		{Code: "SUP-01", Name: "Primary Supplier", Type: "supplier", IsActive: true},
		{Code: "CUS-01", Name: "Primary Customer", Type: "customer", IsActive: true},
	}

	for _, p := range partners {
		var existing models.Partner
		if err := db.Where("code = ?", p.Code).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				db.Create(&p)
			}
		}
	}
}

func SeedUsers(db *gorm.DB) {
	users := []models.User{
		{Username: "admin", Name: "Administrator", Email: "admin@localhost", Role: models.RoleAdmin},
		{Username: "counter", Name: "Warehouse Counter", Email: "counter@localhost", Role: models.RoleCounter},
		{Username: "reviewer", Name: "Count Reviewer", Email: "reviewer@localhost", Role: models.RoleReviewer},
		{Username: "approver", Name: "Receipt Approver", Email: "approver@localhost", Role: models.RoleApprover},
	}

	for _, u := range users {
		var existing models.User
		if err := db.Where("username = ?", u.Username).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				hashed, errHash := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
				if errHash != nil {
					log.Fatalf("Failed to hash seed password: %v", errHash)
				}
				u.Password = string(hashed)
				db.Create(&u)
			}
		}
	}
}

func SeedInventory(db *gorm.DB) {
	stock := []models.Inventory{
		{WhsCode: "WH1", Location: "A-01-01", ItemCode: "ITEM-STD", QtyOnhand: 120, QtyAvailable: 120},
		{WhsCode: "WH1", Location: "A-01-02", ItemCode: "ITEM-LOT", QtyOnhand: 40, QtyAvailable: 40},
		{WhsCode: "WH1", Location: "B-01-01", ItemCode: "ITEM-SER", QtyOnhand: 5, QtyAvailable: 5},
	}

	for _, s := range stock {
		var existing models.Inventory
		err := db.Where("whs_code = ? AND location = ? AND item_code = ?", s.WhsCode, s.Location, s.ItemCode).
			First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.ID = types.SnowflakeID(idgen.GenerateID())
				db.Create(&s)
			}
		}
	}
}
