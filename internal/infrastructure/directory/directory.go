// Package directory resolves user profiles from the identity core's user
// table. The table is owned by the identity core; this adapter reads only.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// UserProfile is the subset of the identity core's user record the
// licensing engine needs for notices and audit display.
type UserProfile struct {
	Sub         string
	Email       string
	DisplayName string
}

// Directory looks up user profiles by internal user ID
type Directory interface {
	Lookup(ctx context.Context, userID uint) (*UserProfile, error)
}

type userRow struct {
	ID          uint   `gorm:"column:id"`
	Sub         string `gorm:"column:sub"`
	Email       string `gorm:"column:email"`
	DisplayName string `gorm:"column:display_name"`
}

// GormDirectory reads profiles from the shared users table
type GormDirectory struct {
	db    *gorm.DB
	caser cases.Caser
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{
		db:    db,
		caser: cases.Title(language.English),
	}
}

// Lookup returns nil without error when the user is unknown; callers
// treat a missing profile as "no recipient".
func (d *GormDirectory) Lookup(ctx context.Context, userID uint) (*UserProfile, error) {
	var row userRow
	err := d.db.WithContext(ctx).
		Table("users").
		Select("id, sub, email, display_name").
		Where("id = ?", userID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %d: %w", userID, err)
	}

	return &UserProfile{
		Sub:         row.Sub,
		Email:       row.Email,
		DisplayName: d.normalizeDisplayName(row.DisplayName, row.Email),
	}, nil
}

// normalizeDisplayName title-cases the stored name, falling back to the
// email local part when the identity core has no name on file.
func (d *GormDirectory) normalizeDisplayName(name, email string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		} else {
			name = email
		}
	}

	parts := strings.Fields(name)
	for i, part := range parts {
		parts[i] = d.caser.String(strings.ToLower(part))
	}
	return strings.Join(parts, " ")
}
