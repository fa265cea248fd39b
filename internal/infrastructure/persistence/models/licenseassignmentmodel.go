package models

import (
	"time"

	"github.com/fed-stew/authvital-sub001/internal/shared/constants"
)

// LicenseAssignmentModel represents the database persistence model for seat
// assignments. Rows are hard-deleted on revoke so the unique
// (tenant, user, application) key can be reused by a later grant.
type LicenseAssignmentModel struct {
	ID              uint   `gorm:"primarykey"`
	SID             string `gorm:"not null;size:32;uniqueIndex:idx_assignment_sid"`
	TenantID        uint   `gorm:"not null;uniqueIndex:idx_tenant_user_app,priority:1"`
	UserID          uint   `gorm:"not null;uniqueIndex:idx_tenant_user_app,priority:2;index:idx_assignment_user"`
	ApplicationID   uint   `gorm:"not null;uniqueIndex:idx_tenant_user_app,priority:3"`
	SubscriptionID  uint   `gorm:"not null;index:idx_assignment_subscription"`
	LicenseTypeID   uint   `gorm:"not null"`
	LicenseTypeName string `gorm:"not null;size:100"`
	AssignedAt      time.Time
	AssignedByID    *uint
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name for GORM
func (LicenseAssignmentModel) TableName() string {
	return constants.TableLicenseAssignments
}
