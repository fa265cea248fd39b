package models

import (
	"time"

	"github.com/fed-stew/authvital-sub001/internal/shared/constants"
)

// ApplicationModel represents the database persistence model for applications
// This is the anti-corruption layer between domain and database
type ApplicationModel struct {
	ID                   uint   `gorm:"primarykey"`
	SID                  string `gorm:"not null;size:32;uniqueIndex:idx_application_sid"`
	Name                 string `gorm:"not null;size:100"`
	LicensingMode        string `gorm:"not null;size:20"`
	AccessMode           string `gorm:"not null;size:20;index:idx_access_mode"`
	DefaultLicenseTypeID *uint
	DefaultSeatCount     int  `gorm:"not null;default:0"`
	AutoGrantToOwner     bool `gorm:"not null;default:false"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName specifies the table name for GORM
func (ApplicationModel) TableName() string {
	return constants.TableApplications
}
