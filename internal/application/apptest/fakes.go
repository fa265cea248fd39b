// Package apptest provides in-memory fakes for the application-layer test
// suites. The fakes honor the repository contracts, including the
// conditional seat increment, but hold everything in maps under a mutex.
package apptest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fed-stew/authvital-sub001/internal/domain/access"
	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/shared/events"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/cache"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/directory"
	"github.com/fed-stew/authvital-sub001/internal/shared/db"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// NewTxManager returns a TransactionManager backed by an in-memory SQLite
// database. The fakes keep their own state, the transactions only provide
// the commit/rollback scaffolding the use cases expect.
func NewTxManager(t *testing.T) *db.TransactionManager {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db.NewTransactionManager(gdb)
}

// NopLogger is a logger.Interface that discards everything.
type NopLogger struct{}

func (NopLogger) Debug(msg string, args ...any)                   {}
func (NopLogger) Info(msg string, args ...any)                    {}
func (NopLogger) Warn(msg string, args ...any)                    {}
func (NopLogger) Error(msg string, args ...any)                   {}
func (NopLogger) Fatal(msg string, args ...any)                   {}
func (n NopLogger) With(args ...any) logger.Interface             { return n }
func (n NopLogger) Named(name string) logger.Interface            { return n }
func (NopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (NopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (NopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (NopLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (NopLogger) Fatalw(msg string, keysAndValues ...interface{}) {}

// =====================================================================
// Subscription repository
//
// Seat counters live outside the aggregate so the conditional increment
// observes exactly what a concurrent writer left behind, mirroring the
// SQL implementation.
// =====================================================================

type subState struct {
	id               uint
	sid              string
	tenantID         uint
	applicationID    uint
	licenseTypeID    uint
	purchased        int
	assigned         int
	status           licensing.SubscriptionStatus
	currentPeriodEnd *time.Time
	autoRenew        bool
	canceledAt       *time.Time
}

// SubscriptionSeed describes a subscription row to preload into the fake.
type SubscriptionSeed struct {
	SID              string
	TenantID         uint
	ApplicationID    uint
	LicenseTypeID    uint
	Purchased        int
	Assigned         int
	Status           licensing.SubscriptionStatus
	CurrentPeriodEnd *time.Time
}

type FakeSubscriptionRepo struct {
	mu   sync.Mutex
	seq  uint
	subs map[uint]*subState
}

func NewFakeSubscriptionRepo() *FakeSubscriptionRepo {
	return &FakeSubscriptionRepo{subs: make(map[uint]*subState)}
}

// Seed inserts a row directly, bypassing the aggregate so tests can start
// from any counter state. Returns the assigned ID.
func (f *FakeSubscriptionRepo) Seed(s SubscriptionSeed) uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.subs[f.seq] = &subState{
		id:               f.seq,
		sid:              s.SID,
		tenantID:         s.TenantID,
		applicationID:    s.ApplicationID,
		licenseTypeID:    s.LicenseTypeID,
		purchased:        s.Purchased,
		assigned:         s.Assigned,
		status:           s.Status,
		currentPeriodEnd: s.CurrentPeriodEnd,
		autoRenew:        true,
	}
	return f.seq
}

// AssignedCount reports the current counter, or -1 for a missing row.
func (f *FakeSubscriptionRepo) AssignedCount(id uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.subs[id]; ok {
		return st.assigned
	}
	return -1
}

// Status reports the current status of a row.
func (f *FakeSubscriptionRepo) CurrentStatus(id uint) licensing.SubscriptionStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.subs[id]; ok {
		return st.status
	}
	return ""
}

func (f *FakeSubscriptionRepo) toAggregate(st *subState) *licensing.AppSubscription {
	sub, err := licensing.ReconstructAppSubscription(
		st.id, st.sid, st.tenantID, st.applicationID, st.licenseTypeID,
		st.purchased, st.assigned, st.status, st.currentPeriodEnd,
		st.autoRenew, st.canceledAt, 1, time.Now(), time.Now())
	if err != nil {
		panic(err)
	}
	return sub
}

func (f *FakeSubscriptionRepo) Create(ctx context.Context, sub *licensing.AppSubscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, st := range f.subs {
		if st.tenantID == sub.TenantID() && st.applicationID == sub.ApplicationID() && st.licenseTypeID == sub.LicenseTypeID() {
			return errors.NewConflictError("subscription already exists")
		}
	}
	f.seq++
	_ = sub.SetID(f.seq)
	f.subs[f.seq] = &subState{
		id:               f.seq,
		sid:              sub.SID(),
		tenantID:         sub.TenantID(),
		applicationID:    sub.ApplicationID(),
		licenseTypeID:    sub.LicenseTypeID(),
		purchased:        sub.QuantityPurchased(),
		assigned:         sub.QuantityAssigned(),
		status:           sub.Status(),
		currentPeriodEnd: sub.CurrentPeriodEnd(),
		autoRenew:        sub.AutoRenew(),
		canceledAt:       sub.CanceledAt(),
	}
	return nil
}

func (f *FakeSubscriptionRepo) Update(ctx context.Context, sub *licensing.AppSubscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.subs[sub.ID()]
	if !ok {
		return errors.NewNotFoundError("subscription not found")
	}
	st.purchased = sub.QuantityPurchased()
	st.status = sub.Status()
	st.currentPeriodEnd = sub.CurrentPeriodEnd()
	st.autoRenew = sub.AutoRenew()
	st.canceledAt = sub.CanceledAt()
	return nil
}

func (f *FakeSubscriptionRepo) GetByID(ctx context.Context, id uint) (*licensing.AppSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.subs[id]
	if !ok {
		return nil, errors.NewNotFoundError("subscription not found")
	}
	return f.toAggregate(st), nil
}

func (f *FakeSubscriptionRepo) GetBySID(ctx context.Context, sid string) (*licensing.AppSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, st := range f.subs {
		if st.sid == sid {
			return f.toAggregate(st), nil
		}
	}
	return nil, errors.NewNotFoundError("subscription not found")
}

func (f *FakeSubscriptionRepo) GetByTenantAppType(ctx context.Context, tenantID, applicationID, licenseTypeID uint) (*licensing.AppSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, st := range f.subs {
		if st.tenantID == tenantID && st.applicationID == applicationID && st.licenseTypeID == licenseTypeID {
			return f.toAggregate(st), nil
		}
	}
	return nil, errors.NewNotFoundError("subscription not found")
}

func (f *FakeSubscriptionRepo) ListUsableByTenantAndApp(ctx context.Context, tenantID, applicationID uint) ([]*licensing.AppSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*licensing.AppSubscription
	for _, st := range f.subs {
		if st.tenantID == tenantID && st.applicationID == applicationID {
			if sub := f.toAggregate(st); sub.IsUsable() {
				out = append(out, sub)
			}
		}
	}
	return out, nil
}

func (f *FakeSubscriptionRepo) ListUsableByTenant(ctx context.Context, tenantID uint) ([]*licensing.AppSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*licensing.AppSubscription
	for _, st := range f.subs {
		if st.tenantID == tenantID {
			if sub := f.toAggregate(st); sub.IsUsable() {
				out = append(out, sub)
			}
		}
	}
	return out, nil
}

func (f *FakeSubscriptionRepo) ListPastDuePeriod(ctx context.Context) ([]*licensing.AppSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*licensing.AppSubscription
	for _, st := range f.subs {
		sub := f.toAggregate(st)
		if sub.IsUsable() && sub.IsPastPeriodEnd() {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (f *FakeSubscriptionRepo) IncrementAssigned(ctx context.Context, subscriptionID uint, observedAssigned int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.subs[subscriptionID]
	if !ok {
		return false, errors.NewNotFoundError("subscription not found")
	}
	if st.assigned != observedAssigned || st.assigned >= st.purchased {
		return false, nil
	}
	st.assigned++
	return true, nil
}

func (f *FakeSubscriptionRepo) DecrementAssigned(ctx context.Context, subscriptionID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.subs[subscriptionID]
	if !ok {
		return errors.NewNotFoundError("subscription not found")
	}
	if st.assigned > 0 {
		st.assigned--
	}
	return nil
}

func (f *FakeSubscriptionRepo) SetAssignedCount(ctx context.Context, subscriptionID uint, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.subs[subscriptionID]
	if !ok {
		return errors.NewNotFoundError("subscription not found")
	}
	st.assigned = count
	return nil
}

func (f *FakeSubscriptionRepo) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, id)
	return nil
}

// =====================================================================
// Assignment repository
// =====================================================================

type FakeAssignmentRepo struct {
	mu   sync.Mutex
	seq  uint
	byID map[uint]*licensing.LicenseAssignment
}

func NewFakeAssignmentRepo() *FakeAssignmentRepo {
	return &FakeAssignmentRepo{byID: make(map[uint]*licensing.LicenseAssignment)}
}

// Count reports how many assignment rows exist.
func (f *FakeAssignmentRepo) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

func (f *FakeAssignmentRepo) Create(ctx context.Context, assignment *licensing.LicenseAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.TenantID() == assignment.TenantID() && a.UserID() == assignment.UserID() && a.ApplicationID() == assignment.ApplicationID() {
			return errors.NewConflictError("assignment already exists")
		}
	}
	f.seq++
	_ = assignment.SetID(f.seq)
	f.byID[f.seq] = assignment
	return nil
}

func (f *FakeAssignmentRepo) Update(ctx context.Context, assignment *licensing.LicenseAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[assignment.ID()]; !ok {
		return errors.NewNotFoundError("assignment not found")
	}
	f.byID[assignment.ID()] = assignment
	return nil
}

func (f *FakeAssignmentRepo) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return errors.NewNotFoundError("assignment not found")
	}
	delete(f.byID, id)
	return nil
}

func (f *FakeAssignmentRepo) GetByID(ctx context.Context, id uint) (*licensing.LicenseAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, errors.NewNotFoundError("assignment not found")
}

func (f *FakeAssignmentRepo) GetByTenantUserApp(ctx context.Context, tenantID, userID, applicationID uint) (*licensing.LicenseAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.TenantID() == tenantID && a.UserID() == userID && a.ApplicationID() == applicationID {
			return a, nil
		}
	}
	return nil, errors.NewNotFoundError("assignment not found")
}

func (f *FakeAssignmentRepo) ListByUser(ctx context.Context, tenantID, userID uint) ([]*licensing.LicenseAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*licensing.LicenseAssignment
	for _, a := range f.byID {
		if a.TenantID() == tenantID && a.UserID() == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *FakeAssignmentRepo) ListByTenantAndApp(ctx context.Context, tenantID, applicationID uint) ([]*licensing.LicenseAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*licensing.LicenseAssignment
	for _, a := range f.byID {
		if a.TenantID() == tenantID && a.ApplicationID() == applicationID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *FakeAssignmentRepo) ListBySubscription(ctx context.Context, subscriptionID uint) ([]*licensing.LicenseAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*licensing.LicenseAssignment
	for _, a := range f.byID {
		if a.SubscriptionID() == subscriptionID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *FakeAssignmentRepo) CountBySubscription(ctx context.Context, subscriptionID uint) (int64, error) {
	list, _ := f.ListBySubscription(ctx, subscriptionID)
	return int64(len(list)), nil
}

func (f *FakeAssignmentRepo) DeleteBySubscription(ctx context.Context, subscriptionID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.byID {
		if a.SubscriptionID() == subscriptionID {
			delete(f.byID, id)
		}
	}
	return nil
}

func (f *FakeAssignmentRepo) Exists(ctx context.Context, tenantID, userID, applicationID uint) (bool, error) {
	_, err := f.GetByTenantUserApp(ctx, tenantID, userID, applicationID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// =====================================================================
// Catalog, tenant and membership repositories
// =====================================================================

type FakeApplicationRepo struct {
	mu   sync.Mutex
	byID map[uint]*catalog.Application
}

func NewFakeApplicationRepo() *FakeApplicationRepo {
	return &FakeApplicationRepo{byID: make(map[uint]*catalog.Application)}
}

func (f *FakeApplicationRepo) Create(ctx context.Context, app *catalog.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[app.ID()] = app
	return nil
}

func (f *FakeApplicationRepo) Update(ctx context.Context, app *catalog.Application) error {
	return f.Create(ctx, app)
}

func (f *FakeApplicationRepo) GetByID(ctx context.Context, id uint) (*catalog.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if app, ok := f.byID[id]; ok {
		return app, nil
	}
	return nil, errors.NewNotFoundError("application not found")
}

func (f *FakeApplicationRepo) GetBySID(ctx context.Context, sid string) (*catalog.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, app := range f.byID {
		if app.SID() == sid {
			return app, nil
		}
	}
	return nil, errors.NewNotFoundError("application not found")
}

func (f *FakeApplicationRepo) List(ctx context.Context) ([]*catalog.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*catalog.Application
	for _, app := range f.byID {
		out = append(out, app)
	}
	return out, nil
}

func (f *FakeApplicationRepo) ListByAccessModes(ctx context.Context, modes []catalog.AccessMode) ([]*catalog.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*catalog.Application
	for _, app := range f.byID {
		for _, m := range modes {
			if app.AccessMode() == m {
				out = append(out, app)
				break
			}
		}
	}
	return out, nil
}

type FakeLicenseTypeRepo struct {
	mu   sync.Mutex
	byID map[uint]*catalog.LicenseType
}

func NewFakeLicenseTypeRepo() *FakeLicenseTypeRepo {
	return &FakeLicenseTypeRepo{byID: make(map[uint]*catalog.LicenseType)}
}

func (f *FakeLicenseTypeRepo) Create(ctx context.Context, lt *catalog.LicenseType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[lt.ID()] = lt
	return nil
}

func (f *FakeLicenseTypeRepo) Update(ctx context.Context, lt *catalog.LicenseType) error {
	return f.Create(ctx, lt)
}

func (f *FakeLicenseTypeRepo) GetByID(ctx context.Context, id uint) (*catalog.LicenseType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if lt, ok := f.byID[id]; ok {
		return lt, nil
	}
	return nil, errors.NewNotFoundError("license type not found")
}

func (f *FakeLicenseTypeRepo) GetBySID(ctx context.Context, sid string) (*catalog.LicenseType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, lt := range f.byID {
		if lt.SID() == sid {
			return lt, nil
		}
	}
	return nil, errors.NewNotFoundError("license type not found")
}

func (f *FakeLicenseTypeRepo) ListByApplication(ctx context.Context, applicationID uint) ([]*catalog.LicenseType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*catalog.LicenseType
	for _, lt := range f.byID {
		if lt.ApplicationID() == applicationID {
			out = append(out, lt)
		}
	}
	return out, nil
}

type FakeTenantRepo struct {
	mu   sync.Mutex
	byID map[uint]*tenant.Tenant
}

func NewFakeTenantRepo() *FakeTenantRepo {
	return &FakeTenantRepo{byID: make(map[uint]*tenant.Tenant)}
}

func (f *FakeTenantRepo) Create(ctx context.Context, t *tenant.Tenant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Slug() == t.Slug() {
			return errors.NewConflictError("slug already in use")
		}
	}
	if t.ID() == 0 {
		_ = t.SetID(uint(len(f.byID) + 1))
	}
	f.byID[t.ID()] = t
	return nil
}

func (f *FakeTenantRepo) GetByID(ctx context.Context, id uint) (*tenant.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, errors.NewNotFoundError("tenant not found")
}

func (f *FakeTenantRepo) GetBySID(ctx context.Context, sid string) (*tenant.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.byID {
		if t.SID() == sid {
			return t, nil
		}
	}
	return nil, errors.NewNotFoundError("tenant not found")
}

func (f *FakeTenantRepo) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.byID {
		if t.Slug() == slug {
			return t, nil
		}
	}
	return nil, errors.NewNotFoundError("tenant not found")
}

type FakeMembershipRepo struct {
	mu   sync.Mutex
	seq  uint
	byID map[uint]*tenant.Membership
}

func NewFakeMembershipRepo() *FakeMembershipRepo {
	return &FakeMembershipRepo{byID: make(map[uint]*tenant.Membership)}
}

func (f *FakeMembershipRepo) Create(ctx context.Context, m *tenant.Membership) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	_ = m.SetID(f.seq)
	f.byID[f.seq] = m
	return nil
}

func (f *FakeMembershipRepo) GetByTenantAndUser(ctx context.Context, tenantID, userID uint) (*tenant.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.byID {
		if m.TenantID() == tenantID && m.UserID() == userID {
			return m, nil
		}
	}
	return nil, errors.NewNotFoundError("membership not found")
}

func (f *FakeMembershipRepo) ListActiveByTenant(ctx context.Context, tenantID uint) ([]*tenant.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*tenant.Membership
	for _, m := range f.byID {
		if m.TenantID() == tenantID && m.IsActive() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *FakeMembershipRepo) ListByTenant(ctx context.Context, tenantID uint) ([]*tenant.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*tenant.Membership
	for _, m := range f.byID {
		if m.TenantID() == tenantID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *FakeMembershipRepo) CountActiveByTenant(ctx context.Context, tenantID uint) (int64, error) {
	list, _ := f.ListActiveByTenant(ctx, tenantID)
	return int64(len(list)), nil
}

func (f *FakeMembershipRepo) CountOccupyingByTenant(ctx context.Context, tenantID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.byID {
		if m.TenantID() == tenantID && m.Status().CountsTowardLimit() {
			n++
		}
	}
	return n, nil
}

// =====================================================================
// Access record repository
// =====================================================================

type FakeAccessRepo struct {
	mu   sync.Mutex
	seq  uint
	byID map[uint]*access.AppAccess
}

func NewFakeAccessRepo() *FakeAccessRepo {
	return &FakeAccessRepo{byID: make(map[uint]*access.AppAccess)}
}

func (f *FakeAccessRepo) Create(ctx context.Context, a *access.AppAccess) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.TenantID() == a.TenantID() && existing.UserID() == a.UserID() && existing.ApplicationID() == a.ApplicationID() {
			return errors.NewConflictError("access record already exists")
		}
	}
	f.seq++
	_ = a.SetID(f.seq)
	f.byID[f.seq] = a
	return nil
}

func (f *FakeAccessRepo) Update(ctx context.Context, a *access.AppAccess) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[a.ID()]; !ok {
		return errors.NewNotFoundError("access record not found")
	}
	f.byID[a.ID()] = a
	return nil
}

func (f *FakeAccessRepo) GetByUserTenantApp(ctx context.Context, userID, tenantID, applicationID uint) (*access.AppAccess, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.UserID() == userID && a.TenantID() == tenantID && a.ApplicationID() == applicationID {
			return a, nil
		}
	}
	return nil, errors.NewNotFoundError("access record not found")
}

func (f *FakeAccessRepo) GetByID(ctx context.Context, id uint) (*access.AppAccess, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, errors.NewNotFoundError("access record not found")
}

func (f *FakeAccessRepo) ListByUserAndTenant(ctx context.Context, userID, tenantID uint) ([]*access.AppAccess, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*access.AppAccess
	for _, a := range f.byID {
		if a.UserID() == userID && a.TenantID() == tenantID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *FakeAccessRepo) ListActiveByTenantAndApp(ctx context.Context, tenantID, applicationID uint) ([]*access.AppAccess, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*access.AppAccess
	for _, a := range f.byID {
		if a.TenantID() == tenantID && a.ApplicationID() == applicationID && a.IsActive() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *FakeAccessRepo) CreateSkipExisting(ctx context.Context, records []*access.AppAccess) ([]*access.AppAccess, error) {
	var inserted []*access.AppAccess
	for _, r := range records {
		if err := f.Create(ctx, r); err != nil {
			if errors.IsConflictError(err) {
				continue
			}
			return nil, err
		}
		inserted = append(inserted, r)
	}
	return inserted, nil
}

// =====================================================================
// Audit log
// =====================================================================

type FakeAuditLogRepo struct {
	mu      sync.Mutex
	entries []*licensing.AuditEntry
}

func NewFakeAuditLogRepo() *FakeAuditLogRepo {
	return &FakeAuditLogRepo{}
}

func (f *FakeAuditLogRepo) Append(ctx context.Context, entry *licensing.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *FakeAuditLogRepo) ListByTenant(ctx context.Context, tenantID uint, limit, offset int) ([]*licensing.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*licensing.AuditEntry
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].TenantID() == tenantID {
			matched = append(matched, f.entries[i])
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *FakeAuditLogRepo) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, e := range f.entries {
		if e.TenantID() == tenantID {
			n++
		}
	}
	return n, nil
}

// Actions lists the recorded actions for a tenant in append order.
func (f *FakeAuditLogRepo) Actions(tenantID uint) []licensing.AuditAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []licensing.AuditAction
	for _, e := range f.entries {
		if e.TenantID() == tenantID {
			out = append(out, e.Action())
		}
	}
	return out
}

// =====================================================================
// Webhook emitter, event publisher, directory, cache, notifier
// =====================================================================

// EmittedWebhook captures one Emit call.
type EmittedWebhook struct {
	Name           string
	Sub            string
	TenantSID      string
	ApplicationSID string
	Payload        map[string]any
}

type FakeWebhookEmitter struct {
	mu     sync.Mutex
	events []EmittedWebhook
}

func (f *FakeWebhookEmitter) Emit(ctx context.Context, name, sub, tenantSID, applicationSID string, payload map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, EmittedWebhook{name, sub, tenantSID, applicationSID, payload})
	return nil
}

// Names lists the emitted event names so far.
func (f *FakeWebhookEmitter) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Name)
	}
	return out
}

// Events returns a copy of everything emitted so far.
func (f *FakeWebhookEmitter) Events() []EmittedWebhook {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]EmittedWebhook(nil), f.events...)
}

type FakeEventPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (f *FakeEventPublisher) Publish(event events.DomainEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *FakeEventPublisher) PublishAll(list []events.DomainEvent) error {
	for _, e := range list {
		_ = f.Publish(e)
	}
	return nil
}

// Types lists the published event types in order.
func (f *FakeEventPublisher) Types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.GetEventType())
	}
	return out
}

type FakeDirectory struct {
	Profiles map[uint]*directory.UserProfile
}

func NewFakeDirectory() *FakeDirectory {
	return &FakeDirectory{Profiles: make(map[uint]*directory.UserProfile)}
}

func (f *FakeDirectory) Lookup(ctx context.Context, userID uint) (*directory.UserProfile, error) {
	if p, ok := f.Profiles[userID]; ok {
		return p, nil
	}
	return nil, errors.NewNotFoundError("user not found")
}

type FakeOverviewCache struct {
	mu           sync.Mutex
	stored       map[string]*cache.CachedUsageOverview
	invalidation []string
}

func NewFakeOverviewCache() *FakeOverviewCache {
	return &FakeOverviewCache{stored: make(map[string]*cache.CachedUsageOverview)}
}

func (f *FakeOverviewCache) Get(ctx context.Context, tenantSID string) (*cache.CachedUsageOverview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored[tenantSID], nil
}

func (f *FakeOverviewCache) Set(ctx context.Context, overview *cache.CachedUsageOverview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored[overview.TenantID] = overview
	return nil
}

func (f *FakeOverviewCache) Invalidate(ctx context.Context, tenantSID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, tenantSID)
	f.invalidation = append(f.invalidation, tenantSID)
	return nil
}

// Invalidated lists the tenant SIDs invalidated so far.
func (f *FakeOverviewCache) Invalidated() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.invalidation...)
}

type FakeSeatNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *FakeSeatNotifier) SendSeatAssignedNotice(to, displayName, applicationName, licenseTypeName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return nil
}

// Sent lists the recipient addresses notified so far.
func (f *FakeSeatNotifier) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}
