package licensing

import "time"

// LicenseAssignedEvent represents a seat grant
type LicenseAssignedEvent struct {
	AssignmentID    uint
	TenantID        uint
	UserID          uint
	ApplicationID   uint
	SubscriptionID  uint
	LicenseTypeID   uint
	LicenseTypeName string
	Timestamp       time.Time
}

func NewLicenseAssignedEvent(assignment *LicenseAssignment) *LicenseAssignedEvent {
	return &LicenseAssignedEvent{
		AssignmentID:    assignment.ID(),
		TenantID:        assignment.TenantID(),
		UserID:          assignment.UserID(),
		ApplicationID:   assignment.ApplicationID(),
		SubscriptionID:  assignment.SubscriptionID(),
		LicenseTypeID:   assignment.LicenseTypeID(),
		LicenseTypeName: assignment.LicenseTypeName(),
		Timestamp:       time.Now(),
	}
}

func (e *LicenseAssignedEvent) GetEventType() string {
	return "license.assigned"
}

func (e *LicenseAssignedEvent) GetTimestamp() time.Time {
	return e.Timestamp
}

func (e *LicenseAssignedEvent) GetAggregateID() uint {
	return e.AssignmentID
}

// LicenseRevokedEvent represents a seat revocation
type LicenseRevokedEvent struct {
	AssignmentID    uint
	TenantID        uint
	UserID          uint
	ApplicationID   uint
	LicenseTypeID   uint
	LicenseTypeName string
	Timestamp       time.Time
}

func NewLicenseRevokedEvent(assignment *LicenseAssignment) *LicenseRevokedEvent {
	return &LicenseRevokedEvent{
		AssignmentID:    assignment.ID(),
		TenantID:        assignment.TenantID(),
		UserID:          assignment.UserID(),
		ApplicationID:   assignment.ApplicationID(),
		LicenseTypeID:   assignment.LicenseTypeID(),
		LicenseTypeName: assignment.LicenseTypeName(),
		Timestamp:       time.Now(),
	}
}

func (e *LicenseRevokedEvent) GetEventType() string {
	return "license.revoked"
}

func (e *LicenseRevokedEvent) GetTimestamp() time.Time {
	return e.Timestamp
}

func (e *LicenseRevokedEvent) GetAggregateID() uint {
	return e.AssignmentID
}

// LicenseChangedEvent represents a license type change
type LicenseChangedEvent struct {
	AssignmentID          uint
	TenantID              uint
	UserID                uint
	ApplicationID         uint
	LicenseTypeID         uint
	LicenseTypeName       string
	PreviousLicenseTypeID uint
	Timestamp             time.Time
}

func NewLicenseChangedEvent(assignment *LicenseAssignment, previousLicenseTypeID uint) *LicenseChangedEvent {
	return &LicenseChangedEvent{
		AssignmentID:          assignment.ID(),
		TenantID:              assignment.TenantID(),
		UserID:                assignment.UserID(),
		ApplicationID:         assignment.ApplicationID(),
		LicenseTypeID:         assignment.LicenseTypeID(),
		LicenseTypeName:       assignment.LicenseTypeName(),
		PreviousLicenseTypeID: previousLicenseTypeID,
		Timestamp:             time.Now(),
	}
}

func (e *LicenseChangedEvent) GetEventType() string {
	return "license.changed"
}

func (e *LicenseChangedEvent) GetTimestamp() time.Time {
	return e.Timestamp
}

func (e *LicenseChangedEvent) GetAggregateID() uint {
	return e.AssignmentID
}

// SubscriptionProvisionedEvent represents creation of a brand-new subscription.
// It is not fired on quantity updates of an existing row.
type SubscriptionProvisionedEvent struct {
	SubscriptionID uint
	TenantID       uint
	ApplicationID  uint
	LicenseTypeID  uint
	Quantity       int
	Timestamp      time.Time
}

func NewSubscriptionProvisionedEvent(sub *AppSubscription) *SubscriptionProvisionedEvent {
	return &SubscriptionProvisionedEvent{
		SubscriptionID: sub.ID(),
		TenantID:       sub.TenantID(),
		ApplicationID:  sub.ApplicationID(),
		LicenseTypeID:  sub.LicenseTypeID(),
		Quantity:       sub.QuantityPurchased(),
		Timestamp:      time.Now(),
	}
}

func (e *SubscriptionProvisionedEvent) GetEventType() string {
	return "tenant.app.granted"
}

func (e *SubscriptionProvisionedEvent) GetTimestamp() time.Time {
	return e.Timestamp
}

func (e *SubscriptionProvisionedEvent) GetAggregateID() uint {
	return e.SubscriptionID
}
