package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/infrastructure/directory"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// LicenseView is an assignment enriched with resolved identifiers for API
// responses.
type LicenseView struct {
	AssignmentID    string    `json:"assignment_id"`
	ApplicationID   string    `json:"application_id"`
	ApplicationName string    `json:"application_name"`
	LicenseTypeID   string    `json:"license_type_id"`
	LicenseTypeName string    `json:"license_type_name"`
	AssignedAt      time.Time `json:"assigned_at"`
}

// HolderView is one seat holder of an application or subscription.
type HolderView struct {
	UserID          uint      `json:"user_id"`
	Sub             string    `json:"sub,omitempty"`
	Email           string    `json:"email,omitempty"`
	DisplayName     string    `json:"display_name,omitempty"`
	AssignmentID    string    `json:"assignment_id"`
	LicenseTypeID   string    `json:"license_type_id"`
	LicenseTypeName string    `json:"license_type_name"`
	AssignedAt      time.Time `json:"assigned_at"`
}

// MemberLicensesView pairs a tenant member with the licenses they hold.
// Members holding nothing still appear with an empty list.
type MemberLicensesView struct {
	UserID      uint          `json:"user_id"`
	Sub         string        `json:"sub,omitempty"`
	Email       string        `json:"email,omitempty"`
	DisplayName string        `json:"display_name,omitempty"`
	Role        string        `json:"role"`
	Licenses    []LicenseView `json:"licenses"`
}

type LicenseQueryUseCase struct {
	assignmentRepo   licensing.AssignmentRepository
	subscriptionRepo licensing.SubscriptionRepository
	applicationRepo  catalog.ApplicationRepository
	licenseTypeRepo  catalog.LicenseTypeRepository
	membershipRepo   tenant.MembershipRepository
	directory        directory.Directory
	logger           logger.Interface
}

func NewLicenseQueryUseCase(
	assignmentRepo licensing.AssignmentRepository,
	subscriptionRepo licensing.SubscriptionRepository,
	applicationRepo catalog.ApplicationRepository,
	licenseTypeRepo catalog.LicenseTypeRepository,
	membershipRepo tenant.MembershipRepository,
	dir directory.Directory,
	logger logger.Interface,
) *LicenseQueryUseCase {
	return &LicenseQueryUseCase{
		assignmentRepo:   assignmentRepo,
		subscriptionRepo: subscriptionRepo,
		applicationRepo:  applicationRepo,
		licenseTypeRepo:  licenseTypeRepo,
		membershipRepo:   membershipRepo,
		directory:        dir,
		logger:           logger,
	}
}

// GetUserLicenses lists all licenses a user holds in a tenant.
func (uc *LicenseQueryUseCase) GetUserLicenses(ctx context.Context, tenantID, userID uint) ([]LicenseView, error) {
	assignments, err := uc.assignmentRepo.ListByUser(ctx, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	views := make([]LicenseView, 0, len(assignments))
	for _, a := range assignments {
		views = append(views, uc.toLicenseView(ctx, a))
	}
	return views, nil
}

// GetAppLicenseHolders lists all seat holders of an application within a tenant.
func (uc *LicenseQueryUseCase) GetAppLicenseHolders(ctx context.Context, tenantID, applicationID uint) ([]HolderView, error) {
	assignments, err := uc.assignmentRepo.ListByTenantAndApp(ctx, tenantID, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return uc.toHolderViews(ctx, assignments), nil
}

// GetSubscriptionAssignments lists the seat holders of a single subscription.
func (uc *LicenseQueryUseCase) GetSubscriptionAssignments(ctx context.Context, subscriptionSID string) ([]HolderView, error) {
	sub, err := uc.subscriptionRepo.GetBySID(ctx, subscriptionSID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("subscription not found")
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	assignments, err := uc.assignmentRepo.ListBySubscription(ctx, sub.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return uc.toHolderViews(ctx, assignments), nil
}

// GetTenantMembersWithLicenses lists every active member of a tenant along
// with the licenses each holds.
func (uc *LicenseQueryUseCase) GetTenantMembersWithLicenses(ctx context.Context, tenantID uint) ([]MemberLicensesView, error) {
	memberships, err := uc.membershipRepo.ListActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	views := make([]MemberLicensesView, 0, len(memberships))
	for _, m := range memberships {
		assignments, err := uc.assignmentRepo.ListByUser(ctx, tenantID, m.UserID())
		if err != nil {
			return nil, fmt.Errorf("failed to list assignments for user %d: %w", m.UserID(), err)
		}

		licenses := make([]LicenseView, 0, len(assignments))
		for _, a := range assignments {
			licenses = append(licenses, uc.toLicenseView(ctx, a))
		}

		view := MemberLicensesView{
			UserID:   m.UserID(),
			Role:     string(m.Role()),
			Licenses: licenses,
		}
		uc.fillProfile(ctx, m.UserID(), &view.Sub, &view.Email, &view.DisplayName)
		views = append(views, view)
	}
	return views, nil
}

func (uc *LicenseQueryUseCase) toLicenseView(ctx context.Context, a *licensing.LicenseAssignment) LicenseView {
	view := LicenseView{
		AssignmentID:    a.SID(),
		LicenseTypeName: a.LicenseTypeName(),
		AssignedAt:      a.AssignedAt(),
	}
	if app, err := uc.applicationRepo.GetByID(ctx, a.ApplicationID()); err == nil {
		view.ApplicationID = app.SID()
		view.ApplicationName = app.Name()
	}
	if lt, err := uc.licenseTypeRepo.GetByID(ctx, a.LicenseTypeID()); err == nil {
		view.LicenseTypeID = lt.SID()
	}
	return view
}

func (uc *LicenseQueryUseCase) toHolderViews(ctx context.Context, assignments []*licensing.LicenseAssignment) []HolderView {
	views := make([]HolderView, 0, len(assignments))
	for _, a := range assignments {
		view := HolderView{
			UserID:          a.UserID(),
			AssignmentID:    a.SID(),
			LicenseTypeName: a.LicenseTypeName(),
			AssignedAt:      a.AssignedAt(),
		}
		if lt, err := uc.licenseTypeRepo.GetByID(ctx, a.LicenseTypeID()); err == nil {
			view.LicenseTypeID = lt.SID()
		}
		uc.fillProfile(ctx, a.UserID(), &view.Sub, &view.Email, &view.DisplayName)
		views = append(views, view)
	}
	return views
}

func (uc *LicenseQueryUseCase) fillProfile(ctx context.Context, userID uint, sub, email, displayName *string) {
	if uc.directory == nil {
		return
	}
	profile, err := uc.directory.Lookup(ctx, userID)
	if err != nil || profile == nil {
		return
	}
	*sub = profile.Sub
	*email = profile.Email
	*displayName = profile.DisplayName
}
