package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/fed-stew/authvital-sub001/internal/shared/constants"
)

// AppSubscriptionModel represents the database persistence model for the
// tenant's seat inventory. QuantityAssigned is mutated only through
// conditional updates in the repository; the unique index keeps one row per
// (tenant, application, licenseType) triple.
type AppSubscriptionModel struct {
	ID                uint   `gorm:"primarykey"`
	SID               string `gorm:"not null;size:32;uniqueIndex:idx_subscription_sid"`
	TenantID          uint   `gorm:"not null;uniqueIndex:idx_tenant_app_type,priority:1;index:idx_subscription_tenant"`
	ApplicationID     uint   `gorm:"not null;uniqueIndex:idx_tenant_app_type,priority:2"`
	LicenseTypeID     uint   `gorm:"not null;uniqueIndex:idx_tenant_app_type,priority:3"`
	QuantityPurchased int    `gorm:"not null;default:0"`
	QuantityAssigned  int    `gorm:"not null;default:0"`
	Status            string `gorm:"not null;size:20;default:ACTIVE;index:idx_subscription_status"`
	CurrentPeriodEnd  *time.Time
	AutoRenew         bool `gorm:"not null;default:true"`
	CanceledAt        *time.Time
	Version           int `gorm:"not null;default:1"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (AppSubscriptionModel) TableName() string {
	return constants.TableAppSubscriptions
}
