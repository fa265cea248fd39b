package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/application/appaccess"
	"github.com/fed-stew/authvital-sub001/internal/application/apptest"
	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/shared/db"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// poolEnv bundles in-memory fakes with wired pool use cases.
type poolEnv struct {
	subscriptionRepo *apptest.FakeSubscriptionRepo
	assignmentRepo   *apptest.FakeAssignmentRepo
	applicationRepo  *apptest.FakeApplicationRepo
	licenseTypeRepo  *apptest.FakeLicenseTypeRepo
	tenantRepo       *apptest.FakeTenantRepo
	membershipRepo   *apptest.FakeMembershipRepo
	accessRepo       *apptest.FakeAccessRepo
	accessService    *appaccess.Service
	txManager        *db.TransactionManager
	overviewCache    *apptest.FakeOverviewCache
	emitter          *apptest.FakeWebhookEmitter
	dispatcher       *apptest.FakeEventPublisher
	directory        *apptest.FakeDirectory
	log              logger.Interface
}

func newPoolEnv(t *testing.T) *poolEnv {
	t.Helper()

	env := &poolEnv{
		subscriptionRepo: apptest.NewFakeSubscriptionRepo(),
		assignmentRepo:   apptest.NewFakeAssignmentRepo(),
		applicationRepo:  apptest.NewFakeApplicationRepo(),
		licenseTypeRepo:  apptest.NewFakeLicenseTypeRepo(),
		tenantRepo:       apptest.NewFakeTenantRepo(),
		membershipRepo:   apptest.NewFakeMembershipRepo(),
		accessRepo:       apptest.NewFakeAccessRepo(),
		txManager:        apptest.NewTxManager(t),
		overviewCache:    apptest.NewFakeOverviewCache(),
		emitter:          &apptest.FakeWebhookEmitter{},
		dispatcher:       &apptest.FakeEventPublisher{},
		directory:        apptest.NewFakeDirectory(),
		log:              apptest.NopLogger{},
	}

	env.accessService = appaccess.NewService(
		env.accessRepo, env.applicationRepo, env.tenantRepo, env.membershipRepo,
		env.emitter, env.directory, env.log)

	return env
}

func (env *poolEnv) provisionUseCase() *ProvisionSubscriptionUseCase {
	return NewProvisionSubscriptionUseCase(
		env.subscriptionRepo, env.applicationRepo, env.licenseTypeRepo,
		env.tenantRepo, env.emitter, env.dispatcher, env.overviewCache, env.log)
}

func (env *poolEnv) updateQuantityUseCase() *UpdateQuantityUseCase {
	return NewUpdateQuantityUseCase(env.subscriptionRepo, env.tenantRepo, env.overviewCache, env.log)
}

func (env *poolEnv) expireUseCase() *ExpireSubscriptionUseCase {
	return NewExpireSubscriptionUseCase(
		env.subscriptionRepo, env.assignmentRepo, env.accessService,
		env.tenantRepo, env.txManager, env.overviewCache, env.log)
}

func (env *poolEnv) expireAllUseCase() *ExpireSubscriptionsUseCase {
	return NewExpireSubscriptionsUseCase(env.subscriptionRepo, env.expireUseCase(), env.log)
}

func (env *poolEnv) reconcileUseCase() *ReconcileAssignedCountUseCase {
	return NewReconcileAssignedCountUseCase(
		env.subscriptionRepo, env.assignmentRepo, env.tenantRepo, env.overviewCache, env.log)
}

func (env *poolEnv) memberAccessUseCase() *CheckMemberAccessUseCase {
	return NewCheckMemberAccessUseCase(
		env.subscriptionRepo, env.applicationRepo, env.licenseTypeRepo,
		env.membershipRepo, env.log)
}

func (env *poolEnv) cancelUseCase() *CancelSubscriptionUseCase {
	return NewCancelSubscriptionUseCase(env.subscriptionRepo, env.log)
}

func (env *poolEnv) renewUseCase() *RenewSubscriptionUseCase {
	return NewRenewSubscriptionUseCase(env.subscriptionRepo, env.log)
}

func (env *poolEnv) overviewUseCase() *GetUsageOverviewUseCase {
	return NewGetUsageOverviewUseCase(
		env.subscriptionRepo, env.applicationRepo, env.licenseTypeRepo,
		env.tenantRepo, env.overviewCache, env.log)
}

// =====================================================================
// Seed helpers
// =====================================================================

func (env *poolEnv) seedTenant(t *testing.T, id uint, sid string) *tenant.Tenant {
	t.Helper()
	tn, err := tenant.NewTenant(sid, "Tenant "+sid, "tenant-"+sid, 1)
	require.NoError(t, err)
	require.NoError(t, tn.SetID(id))
	require.NoError(t, env.tenantRepo.Create(context.Background(), tn))
	return tn
}

func (env *poolEnv) seedApplication(t *testing.T, id uint, sid string, mode catalog.LicensingMode, accessMode catalog.AccessMode) *catalog.Application {
	t.Helper()
	app, err := catalog.NewApplication(sid, "App "+sid, mode, accessMode, nil, 5, false)
	require.NoError(t, err)
	require.NoError(t, app.SetID(id))
	require.NoError(t, env.applicationRepo.Create(context.Background(), app))
	return app
}

func (env *poolEnv) seedLicenseType(t *testing.T, id, applicationID uint, sid, name string, maxMembers *int, status catalog.LicenseTypeStatus) *catalog.LicenseType {
	t.Helper()
	lt, err := catalog.NewLicenseType(sid, applicationID, name, "", nil, maxMembers, status, 1)
	require.NoError(t, err)
	require.NoError(t, lt.SetID(id))
	require.NoError(t, env.licenseTypeRepo.Create(context.Background(), lt))
	return lt
}

func (env *poolEnv) seedMembership(t *testing.T, tenantID, userID uint, status tenant.MembershipStatus) *tenant.Membership {
	t.Helper()
	m, err := tenant.NewMembership(tenantID, userID, tenant.RoleMember, status)
	require.NoError(t, err)
	require.NoError(t, env.membershipRepo.Create(context.Background(), m))
	return m
}

func (env *poolEnv) seedSubscription(t *testing.T, sid string, tenantID, applicationID, licenseTypeID uint, purchased, assigned int, status licensing.SubscriptionStatus, periodEnd *time.Time) uint {
	t.Helper()
	return env.subscriptionRepo.Seed(apptest.SubscriptionSeed{
		SID:              sid,
		TenantID:         tenantID,
		ApplicationID:    applicationID,
		LicenseTypeID:    licenseTypeID,
		Purchased:        purchased,
		Assigned:         assigned,
		Status:           status,
		CurrentPeriodEnd: periodEnd,
	})
}

func (env *poolEnv) seedAssignment(t *testing.T, sid string, tenantID, userID, applicationID, subscriptionID, licenseTypeID uint) *licensing.LicenseAssignment {
	t.Helper()
	a, err := licensing.NewLicenseAssignment(sid, tenantID, userID, applicationID, subscriptionID, licenseTypeID, "Pro", nil)
	require.NoError(t, err)
	require.NoError(t, env.assignmentRepo.Create(context.Background(), a))
	return a
}
