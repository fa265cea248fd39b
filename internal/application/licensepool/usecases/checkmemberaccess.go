package usecases

import (
	"context"
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

type CheckMemberAccessQuery struct {
	TenantID      uint
	ApplicationID uint
}

// MemberAccessResult reports whether another member can be added.
// Limit and Available are nil when the tier is unlimited.
type MemberAccessResult struct {
	Allowed       bool
	LicensingMode string
	Limit         *int
	Used          int
	Available     *int
}

type CheckMemberAccessUseCase struct {
	subscriptionRepo licensing.SubscriptionRepository
	applicationRepo  catalog.ApplicationRepository
	licenseTypeRepo  catalog.LicenseTypeRepository
	membershipRepo   tenant.MembershipRepository
	logger           logger.Interface
}

func NewCheckMemberAccessUseCase(
	subscriptionRepo licensing.SubscriptionRepository,
	applicationRepo catalog.ApplicationRepository,
	licenseTypeRepo catalog.LicenseTypeRepository,
	membershipRepo tenant.MembershipRepository,
	logger logger.Interface,
) *CheckMemberAccessUseCase {
	return &CheckMemberAccessUseCase{
		subscriptionRepo: subscriptionRepo,
		applicationRepo:  applicationRepo,
		licenseTypeRepo:  licenseTypeRepo,
		membershipRepo:   membershipRepo,
		logger:           logger,
	}
}

// Execute runs the mode-dependent capacity arithmetic used before adding a
// tenant member.
func (uc *CheckMemberAccessUseCase) Execute(ctx context.Context, query CheckMemberAccessQuery) (*MemberAccessResult, error) {
	app, err := uc.applicationRepo.GetByID(ctx, query.ApplicationID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("application not found")
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	subs, err := uc.subscriptionRepo.ListUsableByTenantAndApp(ctx, query.TenantID, query.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	result := &MemberAccessResult{LicensingMode: app.LicensingMode().String()}

	switch app.LicensingMode() {
	case catalog.LicensingModeFree, catalog.LicensingModeTenantWide:
		if len(subs) == 0 {
			// no usable tier: nothing to add members against
			result.Allowed = app.LicensingMode() == catalog.LicensingModeFree
			return result, nil
		}

		lt, err := uc.licenseTypeRepo.GetByID(ctx, subs[0].LicenseTypeID())
		if err != nil {
			return nil, fmt.Errorf("failed to get license type: %w", err)
		}

		used, err := uc.membershipRepo.CountActiveByTenant(ctx, query.TenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to count memberships: %w", err)
		}
		result.Used = int(used)

		if lt.MaxMembers() == nil {
			result.Allowed = true
			return result, nil
		}

		limit := *lt.MaxMembers()
		available := limit - int(used)
		if available < 0 {
			available = 0
		}
		result.Limit = &limit
		result.Available = &available
		result.Allowed = available > 0
		return result, nil

	case catalog.LicensingModePerSeat:
		purchased, assigned := 0, 0
		for _, sub := range subs {
			purchased += sub.QuantityPurchased()
			assigned += sub.QuantityAssigned()
		}
		available := purchased - assigned
		if available < 0 {
			available = 0
		}
		result.Limit = &purchased
		result.Used = assigned
		result.Available = &available
		result.Allowed = available > 0
		return result, nil

	default:
		return nil, errors.NewInternalError("unknown licensing mode", app.LicensingMode().String())
	}
}
