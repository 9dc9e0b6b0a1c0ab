package repositories

import (
	"fiber-wms/models"

	"gorm.io/gorm"
)

// AuditRepository is the GORM-backed audit store. Append-only: nothing here
// updates or deletes rows.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ev *models.AuditEvent) error {
	return r.db.Create(ev).Error
}

func (r *AuditRepository) ForDocument(docType string, docID int64) ([]models.AuditEvent, error) {
	var events []models.AuditEvent
	err := r.db.Where("doc_type = ? AND doc_id = ?", docType, docID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
