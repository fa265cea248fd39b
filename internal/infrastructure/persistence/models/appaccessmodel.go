package models

import (
	"time"

	"github.com/fed-stew/authvital-sub001/internal/shared/constants"
)

// AppAccessModel represents the database persistence model for access
// records. Rows are never hard-deleted outside tenant cascades; the status
// column carries the lifecycle.
type AppAccessModel struct {
	ID            uint   `gorm:"primarykey"`
	SID           string `gorm:"not null;size:32;uniqueIndex:idx_access_sid"`
	UserID        uint   `gorm:"not null;uniqueIndex:idx_user_tenant_app,priority:1"`
	TenantID      uint   `gorm:"not null;uniqueIndex:idx_user_tenant_app,priority:2;index:idx_access_tenant"`
	ApplicationID uint   `gorm:"not null;uniqueIndex:idx_user_tenant_app,priority:3;index:idx_access_app"`
	AccessType    string `gorm:"not null;size:20"`
	Status        string `gorm:"not null;size:20;default:ACTIVE;index:idx_access_status"`
	GrantedAt     time.Time
	GrantedByID   *uint
	RevokedAt     *time.Time
	RevokedByID   *uint
	AssignmentID  *uint
	Version       int `gorm:"not null;default:1"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM
func (AppAccessModel) TableName() string {
	return constants.TableAppAccess
}
