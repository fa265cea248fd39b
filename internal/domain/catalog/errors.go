package catalog

import "errors"

var (
	// ErrApplicationNotFound is returned when an application is not found
	ErrApplicationNotFound = errors.New("application not found")

	// ErrLicenseTypeNotFound is returned when a license type is not found
	ErrLicenseTypeNotFound = errors.New("license type not found")

	// ErrLicenseTypeNotActive is returned when a non-ACTIVE license type is offered a new subscription
	ErrLicenseTypeNotActive = errors.New("license type is not active")

	// ErrLicenseTypeWrongApplication is returned when a license type does not belong to the given application
	ErrLicenseTypeWrongApplication = errors.New("license type does not belong to application")

	// ErrAccessDisabled is returned when new inventory is requested for a DISABLED application
	ErrAccessDisabled = errors.New("application access is disabled")
)
