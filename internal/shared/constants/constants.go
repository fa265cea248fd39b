package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"

	// Content Types
	ContentTypeJSON = "application/json"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeySub       = "sub"
	ContextKeyTenantID  = "tenant_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableApplications       = "applications"
	TableLicenseTypes       = "license_types"
	TableAppSubscriptions   = "app_subscriptions"
	TableLicenseAssignments = "license_assignments"
	TableAppAccess          = "app_access"
	TableLicenseAuditLog    = "license_audit_log"
	TableTenants            = "tenants"
	TableTenantMemberships  = "tenant_memberships"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
)
