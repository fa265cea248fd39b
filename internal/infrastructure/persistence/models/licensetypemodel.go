package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fed-stew/authvital-sub001/internal/shared/constants"
)

// LicenseTypeModel represents the database persistence model for license types.
// Features is a JSON object of feature-key -> bool.
type LicenseTypeModel struct {
	ID            uint   `gorm:"primarykey"`
	SID           string `gorm:"not null;size:32;uniqueIndex:idx_license_type_sid"`
	ApplicationID uint   `gorm:"not null;index:idx_license_type_app"`
	Name          string `gorm:"not null;size:100"`
	Slug          string `gorm:"not null;size:120;index:idx_license_type_slug"`
	Features      datatypes.JSON
	MaxMembers    *int
	Status        string `gorm:"not null;size:20;default:DRAFT"`
	DisplayOrder  int    `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM
func (LicenseTypeModel) TableName() string {
	return constants.TableLicenseTypes
}
