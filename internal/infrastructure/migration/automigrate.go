package migration

import (
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.ApplicationModel{},
		&models.LicenseTypeModel{},
		&models.AppSubscriptionModel{},
		&models.LicenseAssignmentModel{},
		&models.AppAccessModel{},
		&models.LicenseAuditLogModel{},
		&models.TenantModel{},
		&models.TenantMembershipModel{},
	}
}
