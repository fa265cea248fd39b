package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fed-stew/authvital-sub001/internal/application/appaccess"
	"github.com/fed-stew/authvital-sub001/internal/application/apptest"
	assignmentUsecases "github.com/fed-stew/authvital-sub001/internal/application/licenseassignment/usecases"
	poolUsecases "github.com/fed-stew/authvital-sub001/internal/application/licensepool/usecases"
	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// provEnv wires the pool and assignment use cases this package composes.
type provEnv struct {
	subscriptionRepo *apptest.FakeSubscriptionRepo
	assignmentRepo   *apptest.FakeAssignmentRepo
	applicationRepo  *apptest.FakeApplicationRepo
	licenseTypeRepo  *apptest.FakeLicenseTypeRepo
	tenantRepo       *apptest.FakeTenantRepo
	membershipRepo   *apptest.FakeMembershipRepo
	accessRepo       *apptest.FakeAccessRepo
	accessService    *appaccess.Service
	provisionUC      *poolUsecases.ProvisionSubscriptionUseCase
	grantLicenseUC   *assignmentUsecases.GrantLicenseUseCase
	log              logger.Interface
}

func newProvEnv(t *testing.T) *provEnv {
	t.Helper()

	env := &provEnv{
		subscriptionRepo: apptest.NewFakeSubscriptionRepo(),
		assignmentRepo:   apptest.NewFakeAssignmentRepo(),
		applicationRepo:  apptest.NewFakeApplicationRepo(),
		licenseTypeRepo:  apptest.NewFakeLicenseTypeRepo(),
		tenantRepo:       apptest.NewFakeTenantRepo(),
		membershipRepo:   apptest.NewFakeMembershipRepo(),
		accessRepo:       apptest.NewFakeAccessRepo(),
		log:              apptest.NopLogger{},
	}

	emitter := &apptest.FakeWebhookEmitter{}
	dispatcher := &apptest.FakeEventPublisher{}
	dir := apptest.NewFakeDirectory()
	overviewCache := apptest.NewFakeOverviewCache()
	txManager := apptest.NewTxManager(t)

	env.accessService = appaccess.NewService(
		env.accessRepo, env.applicationRepo, env.tenantRepo, env.membershipRepo,
		emitter, dir, env.log)

	env.provisionUC = poolUsecases.NewProvisionSubscriptionUseCase(
		env.subscriptionRepo, env.applicationRepo, env.licenseTypeRepo,
		env.tenantRepo, emitter, dispatcher, overviewCache, env.log)

	events := assignmentUsecases.NewLicenseEventEmitter(
		emitter, dispatcher, env.tenantRepo, env.applicationRepo,
		env.licenseTypeRepo, dir, env.log)

	env.grantLicenseUC = assignmentUsecases.NewGrantLicenseUseCase(
		env.assignmentRepo, env.subscriptionRepo, env.licenseTypeRepo,
		env.applicationRepo, env.membershipRepo, env.tenantRepo,
		apptest.NewFakeAuditLogRepo(), env.accessService, txManager,
		overviewCache, events, dir, &apptest.FakeSeatNotifier{}, env.log)

	return env
}

func (env *provEnv) provisionForNewTenantUseCase() *ProvisionForNewTenantUseCase {
	return NewProvisionForNewTenantUseCase(
		env.provisionUC, env.grantLicenseUC, env.accessService,
		env.applicationRepo, env.licenseTypeRepo, env.log)
}

func (env *provEnv) memberLimitUseCase() *CheckMemberLimitUseCase {
	return NewCheckMemberLimitUseCase(
		env.subscriptionRepo, env.applicationRepo, env.licenseTypeRepo,
		env.membershipRepo, env.log)
}

func (env *provEnv) seedTenant(t *testing.T, id uint, sid string) *tenant.Tenant {
	t.Helper()
	tn, err := tenant.NewTenant(sid, "Tenant "+sid, "tenant-"+sid, 1)
	require.NoError(t, err)
	require.NoError(t, tn.SetID(id))
	require.NoError(t, env.tenantRepo.Create(context.Background(), tn))
	return tn
}

func (env *provEnv) seedApplication(t *testing.T, id uint, sid string, mode catalog.LicensingMode, seatCount int, autoGrantToOwner bool) *catalog.Application {
	t.Helper()
	app, err := catalog.NewApplication(sid, "App "+sid, mode, catalog.AccessModeAutomatic, nil, seatCount, autoGrantToOwner)
	require.NoError(t, err)
	require.NoError(t, app.SetID(id))
	require.NoError(t, env.applicationRepo.Create(context.Background(), app))
	return app
}

func (env *provEnv) seedLicenseType(t *testing.T, id, applicationID uint, sid, name string, maxMembers *int) *catalog.LicenseType {
	t.Helper()
	lt, err := catalog.NewLicenseType(sid, applicationID, name, "", nil, maxMembers, catalog.LicenseTypeStatusActive, 1)
	require.NoError(t, err)
	require.NoError(t, lt.SetID(id))
	require.NoError(t, env.licenseTypeRepo.Create(context.Background(), lt))
	return lt
}

func (env *provEnv) seedMembership(t *testing.T, tenantID, userID uint, status tenant.MembershipStatus) {
	t.Helper()
	m, err := tenant.NewMembership(tenantID, userID, tenant.RoleOwner, status)
	require.NoError(t, err)
	require.NoError(t, env.membershipRepo.Create(context.Background(), m))
}

func (env *provEnv) seedSubscription(t *testing.T, sid string, tenantID, applicationID, licenseTypeID uint) uint {
	t.Helper()
	return env.subscriptionRepo.Seed(apptest.SubscriptionSeed{
		SID:           sid,
		TenantID:      tenantID,
		ApplicationID: applicationID,
		LicenseTypeID: licenseTypeID,
		Purchased:     1,
		Status:        licensing.SubscriptionStatusActive,
	})
}
