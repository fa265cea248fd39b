package models

import (
	"time"

	"github.com/fed-stew/authvital-sub001/internal/shared/constants"
)

// TenantMembershipModel represents the database persistence model for tenant memberships
type TenantMembershipModel struct {
	ID        uint   `gorm:"primarykey"`
	TenantID  uint   `gorm:"not null;uniqueIndex:idx_membership_tenant_user,priority:1"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_membership_tenant_user,priority:2;index:idx_membership_user"`
	Role      string `gorm:"not null;size:20;default:MEMBER"`
	Status    string `gorm:"not null;size:20;default:ACTIVE;index:idx_membership_status"`
	JoinedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (TenantMembershipModel) TableName() string {
	return constants.TableTenantMemberships
}
