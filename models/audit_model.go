package models

import (
	"gorm.io/gorm"
)

// AuditEvent is one append-only entry in a document's transition trail.
// Rows are never updated or deleted.
type AuditEvent struct {
	gorm.Model
	DocType    string `json:"doc_type" gorm:"index:idx_audit_doc"`
	DocId      int64  `json:"doc_id" gorm:"index:idx_audit_doc"`
	DocNo      string `json:"doc_no"`
	Action     string `json:"action"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	Actor      int    `json:"actor"`
	Role       string `json:"role"`
	Notes      string `json:"notes"`
}
