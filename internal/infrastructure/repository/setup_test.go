package repository

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fed-stew/authvital-sub001/internal/infrastructure/persistence/models"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&models.AppSubscriptionModel{},
		&models.LicenseAssignmentModel{},
		&models.AppAccessModel{},
		&models.LicenseAuditLogModel{},
		&models.TenantModel{},
		&models.TenantMembershipModel{},
	)
	require.NoError(t, err)

	return gdb
}

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
