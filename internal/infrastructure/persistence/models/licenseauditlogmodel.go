package models

import (
	"time"

	"github.com/fed-stew/authvital-sub001/internal/shared/constants"
)

// LicenseAuditLogModel represents the append-only audit log of license
// actions. There is no update path and no UpdatedAt column.
type LicenseAuditLogModel struct {
	ID                    uint   `gorm:"primarykey"`
	SID                   string `gorm:"not null;size:32;uniqueIndex:idx_audit_sid"`
	TenantID              uint   `gorm:"not null;index:idx_audit_tenant_created,priority:1"`
	UserID                uint   `gorm:"not null;index:idx_audit_user"`
	ApplicationID         uint   `gorm:"not null"`
	Action                string `gorm:"not null;size:20"`
	LicenseTypeID         uint   `gorm:"not null"`
	LicenseTypeName       string `gorm:"not null;size:100"`
	PreviousLicenseTypeID *uint
	ActorID               *uint
	CreatedAt             time.Time `gorm:"index:idx_audit_tenant_created,priority:2"`
}

// TableName specifies the table name for GORM
func (LicenseAuditLogModel) TableName() string {
	return constants.TableLicenseAuditLog
}
