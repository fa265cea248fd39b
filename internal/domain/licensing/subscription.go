package licensing

import (
	"fmt"
	"time"
)

// AppSubscription represents a tenant's inventory row for one
// (tenant, application, licenseType) triple.
//
// quantityAssigned is authoritative only in the database: in-memory copies
// are snapshots, and every mutation of the counter goes through the
// repository's conditional increment/decrement, never through Update.
// The invariant 0 <= quantityAssigned <= quantityPurchased holds at every
// observable instant.
type AppSubscription struct {
	id                uint
	sid               string
	tenantID          uint
	applicationID     uint
	licenseTypeID     uint
	quantityPurchased int
	quantityAssigned  int
	status            SubscriptionStatus
	currentPeriodEnd  *time.Time
	autoRenew         bool
	canceledAt        *time.Time
	version           int
	createdAt         time.Time
	updatedAt         time.Time
}

// NewAppSubscription creates a new subscription
func NewAppSubscription(
	sid string,
	tenantID, applicationID, licenseTypeID uint,
	quantityPurchased int,
	status SubscriptionStatus,
	currentPeriodEnd *time.Time,
	autoRenew bool,
) (*AppSubscription, error) {
	if sid == "" {
		return nil, fmt.Errorf("subscription SID is required")
	}
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if applicationID == 0 {
		return nil, fmt.Errorf("application ID is required")
	}
	if licenseTypeID == 0 {
		return nil, fmt.Errorf("license type ID is required")
	}
	if quantityPurchased < 1 {
		return nil, fmt.Errorf("purchased quantity must be at least 1")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}

	now := time.Now()
	return &AppSubscription{
		sid:               sid,
		tenantID:          tenantID,
		applicationID:     applicationID,
		licenseTypeID:     licenseTypeID,
		quantityPurchased: quantityPurchased,
		quantityAssigned:  0,
		status:            status,
		currentPeriodEnd:  currentPeriodEnd,
		autoRenew:         autoRenew,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// ReconstructAppSubscription reconstructs a subscription from persistence
func ReconstructAppSubscription(
	id uint,
	sid string,
	tenantID, applicationID, licenseTypeID uint,
	quantityPurchased, quantityAssigned int,
	status SubscriptionStatus,
	currentPeriodEnd *time.Time,
	autoRenew bool,
	canceledAt *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) (*AppSubscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if applicationID == 0 {
		return nil, fmt.Errorf("application ID is required")
	}
	if licenseTypeID == 0 {
		return nil, fmt.Errorf("license type ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}
	if quantityAssigned < 0 || quantityAssigned > quantityPurchased {
		return nil, fmt.Errorf("assigned count %d outside [0, %d]", quantityAssigned, quantityPurchased)
	}

	return &AppSubscription{
		id:                id,
		sid:               sid,
		tenantID:          tenantID,
		applicationID:     applicationID,
		licenseTypeID:     licenseTypeID,
		quantityPurchased: quantityPurchased,
		quantityAssigned:  quantityAssigned,
		status:            status,
		currentPeriodEnd:  currentPeriodEnd,
		autoRenew:         autoRenew,
		canceledAt:        canceledAt,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}, nil
}

// ID returns the subscription ID
func (s *AppSubscription) ID() uint {
	return s.id
}

// SID returns the subscription short ID
func (s *AppSubscription) SID() string {
	return s.sid
}

// TenantID returns the tenant ID
func (s *AppSubscription) TenantID() uint {
	return s.tenantID
}

// ApplicationID returns the application ID
func (s *AppSubscription) ApplicationID() uint {
	return s.applicationID
}

// LicenseTypeID returns the license type ID
func (s *AppSubscription) LicenseTypeID() uint {
	return s.licenseTypeID
}

// QuantityPurchased returns the purchased seat count
func (s *AppSubscription) QuantityPurchased() int {
	return s.quantityPurchased
}

// QuantityAssigned returns the assigned seat count as of the last read
func (s *AppSubscription) QuantityAssigned() int {
	return s.quantityAssigned
}

// Status returns the subscription status
func (s *AppSubscription) Status() SubscriptionStatus {
	return s.status
}

// CurrentPeriodEnd returns the end of the current billing period
func (s *AppSubscription) CurrentPeriodEnd() *time.Time {
	return s.currentPeriodEnd
}

// AutoRenew returns the auto-renew setting
func (s *AppSubscription) AutoRenew() bool {
	return s.autoRenew
}

// CanceledAt returns when renewal was stopped
func (s *AppSubscription) CanceledAt() *time.Time {
	return s.canceledAt
}

// Version returns the aggregate version for optimistic locking
func (s *AppSubscription) Version() int {
	return s.version
}

// CreatedAt returns when the subscription was created
func (s *AppSubscription) CreatedAt() time.Time {
	return s.createdAt
}

// UpdatedAt returns when the subscription was last updated
func (s *AppSubscription) UpdatedAt() time.Time {
	return s.updatedAt
}

// SetID sets the subscription ID (only for persistence layer use)
func (s *AppSubscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// IsUsable reports whether the subscription counts toward capacity checks
func (s *AppSubscription) IsUsable() bool {
	return s.status.IsUsable()
}

// HasAvailableSeats reports whether the snapshot shows free capacity.
// This is the pre-check only; the authoritative check is the conditional
// increment in the repository.
func (s *AppSubscription) HasAvailableSeats() bool {
	return s.quantityAssigned < s.quantityPurchased
}

// AvailableSeats returns purchased minus assigned as of the last read
func (s *AppSubscription) AvailableSeats() int {
	return s.quantityPurchased - s.quantityAssigned
}

// UpdateQuantity changes the purchased quantity. Shrinking below the
// currently assigned count is rejected.
func (s *AppSubscription) UpdateQuantity(newQuantityPurchased int) error {
	if newQuantityPurchased < 1 {
		return fmt.Errorf("purchased quantity must be at least 1")
	}
	if newQuantityPurchased < s.quantityAssigned {
		return ErrQuantityBelowAssigned
	}

	s.quantityPurchased = newQuantityPurchased
	s.updatedAt = time.Now()
	s.version++
	return nil
}

// Reprovision refreshes quantity, status and period on an existing row,
// clearing any prior cancellation. Used by the upsert path.
func (s *AppSubscription) Reprovision(quantityPurchased int, status SubscriptionStatus, periodEnd *time.Time) error {
	if quantityPurchased < s.quantityAssigned {
		return ErrQuantityBelowAssigned
	}
	if !status.IsValid() {
		return fmt.Errorf("invalid subscription status: %s", status)
	}

	s.quantityPurchased = quantityPurchased
	s.status = status
	s.currentPeriodEnd = periodEnd
	s.canceledAt = nil
	s.autoRenew = true
	s.updatedAt = time.Now()
	s.version++
	return nil
}

// Cancel stops renewal. Access persists until period end.
func (s *AppSubscription) Cancel() error {
	if s.status == SubscriptionStatusExpired {
		return fmt.Errorf("cannot cancel expired subscription")
	}
	if s.status == SubscriptionStatusCanceled {
		return nil
	}

	now := time.Now()
	s.status = SubscriptionStatusCanceled
	s.autoRenew = false
	s.canceledAt = &now
	s.updatedAt = now
	s.version++
	return nil
}

// Expire marks the subscription expired. The caller is responsible for
// releasing its assignments and zeroing the counter in the same transaction.
func (s *AppSubscription) Expire() error {
	if s.status == SubscriptionStatusExpired {
		return nil
	}

	s.status = SubscriptionStatusExpired
	s.autoRenew = false
	s.updatedAt = time.Now()
	s.version++
	return nil
}

// Renew reactivates the subscription with a new period end
func (s *AppSubscription) Renew(periodEnd time.Time) error {
	if periodEnd.Before(time.Now()) {
		return fmt.Errorf("renewal period end must be in the future")
	}

	s.status = SubscriptionStatusActive
	s.currentPeriodEnd = &periodEnd
	s.autoRenew = true
	s.canceledAt = nil
	s.updatedAt = time.Now()
	s.version++
	return nil
}

// IsPastPeriodEnd reports whether the current period has lapsed
func (s *AppSubscription) IsPastPeriodEnd() bool {
	if s.currentPeriodEnd == nil {
		return false
	}
	return time.Now().After(*s.currentPeriodEnd)
}
