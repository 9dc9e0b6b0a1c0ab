package models

import "gorm.io/gorm"

// User roles: "counter" captures counts and may not see system quantities on
// blind counts, "reviewer" sees variances, "approver" may approve or reject
// submitted receipts, "admin" may do everything.
const (
	RoleCounter  = "counter"
	RoleReviewer = "reviewer"
	RoleApprover = "approver"
	RoleAdmin    = "admin"
)

type User struct {
	gorm.Model
	Username  string `json:"username" gorm:"unique"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Email     string `json:"email" gorm:"unique"`
	Role      string `json:"role"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}
