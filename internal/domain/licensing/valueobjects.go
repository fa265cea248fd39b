// Package licensing provides domain models for the license pool and seat
// assignment machinery: subscription inventory, seat assignments, and the
// append-only audit trail of license actions.
package licensing

// SubscriptionStatus represents the status of an app subscription
type SubscriptionStatus string

const (
	// SubscriptionStatusActive indicates a paid, usable subscription
	SubscriptionStatusActive SubscriptionStatus = "ACTIVE"
	// SubscriptionStatusTrialing indicates a trial subscription, usable like ACTIVE
	SubscriptionStatusTrialing SubscriptionStatus = "TRIALING"
	// SubscriptionStatusPastDue indicates a payment-lapsed subscription
	SubscriptionStatusPastDue SubscriptionStatus = "PAST_DUE"
	// SubscriptionStatusCanceled indicates renewal has been stopped; access persists until period end
	SubscriptionStatusCanceled SubscriptionStatus = "CANCELED"
	// SubscriptionStatusExpired indicates the subscription has ended and its seats are released
	SubscriptionStatusExpired SubscriptionStatus = "EXPIRED"
)

// IsValid checks if the subscription status is valid
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusTrialing, SubscriptionStatusPastDue,
		SubscriptionStatusCanceled, SubscriptionStatusExpired:
		return true
	default:
		return false
	}
}

// String returns the string representation of the subscription status
func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsUsable reports whether the subscription counts toward capacity checks
func (s SubscriptionStatus) IsUsable() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusTrialing
}

// UsableStatuses lists the statuses that count toward capacity and member-limit checks
func UsableStatuses() []SubscriptionStatus {
	return []SubscriptionStatus{SubscriptionStatusActive, SubscriptionStatusTrialing}
}

// AuditAction represents the kind of license action recorded in the audit log
type AuditAction string

const (
	// AuditActionGranted records a seat grant
	AuditActionGranted AuditAction = "GRANTED"
	// AuditActionRevoked records a seat revocation
	AuditActionRevoked AuditAction = "REVOKED"
	// AuditActionChanged records a license type change
	AuditActionChanged AuditAction = "CHANGED"
)

// IsValid checks if the audit action is valid
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionGranted, AuditActionRevoked, AuditActionChanged:
		return true
	default:
		return false
	}
}

// String returns the string representation of the audit action
func (a AuditAction) String() string {
	return string(a)
}
