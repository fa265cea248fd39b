package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/application/appaccess"
	"github.com/fed-stew/authvital-sub001/internal/application/apptest"
	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/shared/db"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// testEnv bundles the in-memory fakes with fully wired use case
// dependencies so each test starts from a clean world.
type testEnv struct {
	assignmentRepo   *apptest.FakeAssignmentRepo
	subscriptionRepo *apptest.FakeSubscriptionRepo
	licenseTypeRepo  *apptest.FakeLicenseTypeRepo
	applicationRepo  *apptest.FakeApplicationRepo
	membershipRepo   *apptest.FakeMembershipRepo
	tenantRepo       *apptest.FakeTenantRepo
	auditRepo        *apptest.FakeAuditLogRepo
	accessRepo       *apptest.FakeAccessRepo
	accessService    *appaccess.Service
	txManager        *db.TransactionManager
	overviewCache    *apptest.FakeOverviewCache
	emitter          *apptest.FakeWebhookEmitter
	dispatcher       *apptest.FakeEventPublisher
	directory        *apptest.FakeDirectory
	notifier         *apptest.FakeSeatNotifier
	events           *LicenseEventEmitter
	log              logger.Interface
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		assignmentRepo:   apptest.NewFakeAssignmentRepo(),
		subscriptionRepo: apptest.NewFakeSubscriptionRepo(),
		licenseTypeRepo:  apptest.NewFakeLicenseTypeRepo(),
		applicationRepo:  apptest.NewFakeApplicationRepo(),
		membershipRepo:   apptest.NewFakeMembershipRepo(),
		tenantRepo:       apptest.NewFakeTenantRepo(),
		auditRepo:        apptest.NewFakeAuditLogRepo(),
		accessRepo:       apptest.NewFakeAccessRepo(),
		txManager:        apptest.NewTxManager(t),
		overviewCache:    apptest.NewFakeOverviewCache(),
		emitter:          &apptest.FakeWebhookEmitter{},
		dispatcher:       &apptest.FakeEventPublisher{},
		directory:        apptest.NewFakeDirectory(),
		notifier:         &apptest.FakeSeatNotifier{},
		log:              apptest.NopLogger{},
	}

	env.accessService = appaccess.NewService(
		env.accessRepo, env.applicationRepo, env.tenantRepo, env.membershipRepo,
		env.emitter, env.directory, env.log)

	env.events = NewLicenseEventEmitter(
		env.emitter, env.dispatcher, env.tenantRepo, env.applicationRepo,
		env.licenseTypeRepo, env.directory, env.log)

	return env
}

func (env *testEnv) grantUseCase() *GrantLicenseUseCase {
	return NewGrantLicenseUseCase(
		env.assignmentRepo, env.subscriptionRepo, env.licenseTypeRepo,
		env.applicationRepo, env.membershipRepo, env.tenantRepo, env.auditRepo,
		env.accessService, env.txManager, env.overviewCache, env.events,
		env.directory, env.notifier, env.log)
}

func (env *testEnv) revokeUseCase() *RevokeLicenseUseCase {
	return NewRevokeLicenseUseCase(
		env.assignmentRepo, env.subscriptionRepo, env.tenantRepo, env.auditRepo,
		env.accessService, env.txManager, env.overviewCache, env.events, env.log)
}

func (env *testEnv) changeUseCase() *ChangeLicenseTypeUseCase {
	return NewChangeLicenseTypeUseCase(
		env.assignmentRepo, env.subscriptionRepo, env.licenseTypeRepo,
		env.tenantRepo, env.auditRepo, env.txManager, env.overviewCache,
		env.events, env.log)
}

func (env *testEnv) revokeAllUseCase() *RevokeAllUserLicensesUseCase {
	return NewRevokeAllUserLicensesUseCase(
		env.assignmentRepo, env.subscriptionRepo, env.tenantRepo, env.auditRepo,
		env.accessService, env.txManager, env.overviewCache, env.events, env.log)
}

// =====================================================================
// Seed helpers
// =====================================================================

func (env *testEnv) seedTenant(t *testing.T, id uint, sid string) *tenant.Tenant {
	t.Helper()
	tn, err := tenant.NewTenant(sid, "Tenant "+sid, "tenant-"+sid, 1)
	require.NoError(t, err)
	require.NoError(t, tn.SetID(id))
	require.NoError(t, env.tenantRepo.Create(context.Background(), tn))
	return tn
}

func (env *testEnv) seedApplication(t *testing.T, id uint, sid string, accessMode catalog.AccessMode) *catalog.Application {
	t.Helper()
	app, err := catalog.NewApplication(sid, "App "+sid, catalog.LicensingModePerSeat, accessMode, nil, 5, false)
	require.NoError(t, err)
	require.NoError(t, app.SetID(id))
	require.NoError(t, env.applicationRepo.Create(context.Background(), app))
	return app
}

func (env *testEnv) seedLicenseType(t *testing.T, id, applicationID uint, sid, name string, features map[string]bool) *catalog.LicenseType {
	t.Helper()
	lt, err := catalog.NewLicenseType(sid, applicationID, name, "", features, nil, catalog.LicenseTypeStatusActive, 1)
	require.NoError(t, err)
	require.NoError(t, lt.SetID(id))
	require.NoError(t, env.licenseTypeRepo.Create(context.Background(), lt))
	return lt
}

func (env *testEnv) seedMembership(t *testing.T, tenantID, userID uint, status tenant.MembershipStatus) *tenant.Membership {
	t.Helper()
	m, err := tenant.NewMembership(tenantID, userID, tenant.RoleMember, status)
	require.NoError(t, err)
	require.NoError(t, env.membershipRepo.Create(context.Background(), m))
	return m
}

func (env *testEnv) seedSubscription(t *testing.T, sid string, tenantID, applicationID, licenseTypeID uint, purchased, assigned int, status licensing.SubscriptionStatus) uint {
	t.Helper()
	return env.subscriptionRepo.Seed(apptest.SubscriptionSeed{
		SID:           sid,
		TenantID:      tenantID,
		ApplicationID: applicationID,
		LicenseTypeID: licenseTypeID,
		Purchased:     purchased,
		Assigned:      assigned,
		Status:        status,
	})
}
