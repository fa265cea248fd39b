package tenant

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
)

// Tenant represents an organization using the platform
type Tenant struct {
	id          uint
	sid         string
	name        string
	slug        string
	ownerUserID uint
	createdAt   time.Time
	updatedAt   time.Time
}

// NewTenant creates a new tenant. The slug is derived from the name when
// not provided.
func NewTenant(sid, name, slugValue string, ownerUserID uint) (*Tenant, error) {
	if sid == "" {
		return nil, fmt.Errorf("tenant SID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("tenant name is required")
	}
	if ownerUserID == 0 {
		return nil, fmt.Errorf("owner user ID is required")
	}

	if slugValue == "" {
		slugValue = slug.Make(name)
	}

	now := time.Now()
	return &Tenant{
		sid:         sid,
		name:        name,
		slug:        slugValue,
		ownerUserID: ownerUserID,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructTenant reconstructs a tenant from persistence
func ReconstructTenant(
	id uint,
	sid, name, slugValue string,
	ownerUserID uint,
	createdAt, updatedAt time.Time,
) (*Tenant, error) {
	if id == 0 {
		return nil, fmt.Errorf("tenant ID cannot be zero")
	}
	if ownerUserID == 0 {
		return nil, fmt.Errorf("owner user ID is required")
	}

	return &Tenant{
		id:          id,
		sid:         sid,
		name:        name,
		slug:        slugValue,
		ownerUserID: ownerUserID,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

// ID returns the tenant ID
func (t *Tenant) ID() uint {
	return t.id
}

// SID returns the tenant short ID
func (t *Tenant) SID() string {
	return t.sid
}

// Name returns the tenant name
func (t *Tenant) Name() string {
	return t.name
}

// Slug returns the URL-safe slug
func (t *Tenant) Slug() string {
	return t.slug
}

// OwnerUserID returns the owner's user ID
func (t *Tenant) OwnerUserID() uint {
	return t.ownerUserID
}

// CreatedAt returns when the tenant was created
func (t *Tenant) CreatedAt() time.Time {
	return t.createdAt
}

// UpdatedAt returns when the tenant was last updated
func (t *Tenant) UpdatedAt() time.Time {
	return t.updatedAt
}

// SetID sets the tenant ID (only for persistence layer use)
func (t *Tenant) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("tenant ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("tenant ID cannot be zero")
	}
	t.id = id
	return nil
}
