package models

import (
	"time"

	"github.com/fed-stew/authvital-sub001/internal/shared/constants"
)

// TenantModel represents the database persistence model for tenants
type TenantModel struct {
	ID          uint   `gorm:"primarykey"`
	SID         string `gorm:"not null;size:32;uniqueIndex:idx_tenant_sid"`
	Name        string `gorm:"not null;size:100"`
	Slug        string `gorm:"not null;size:120;uniqueIndex:idx_tenant_slug"`
	OwnerUserID uint   `gorm:"not null;index:idx_tenant_owner"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for GORM
func (TenantModel) TableName() string {
	return constants.TableTenants
}
