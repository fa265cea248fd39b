package usecases

import (
	"context"
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/domain/tenant"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// MemberLimitResult reports whether a tenant can take another member.
// Limit is nil when no subscription caps membership.
type MemberLimitResult struct {
	CanAddMember bool  `json:"can_add_member"`
	Limit        *int  `json:"limit,omitempty"`
	Occupied     int64 `json:"occupied"`
}

type CheckMemberLimitUseCase struct {
	subscriptionRepo licensing.SubscriptionRepository
	applicationRepo  catalog.ApplicationRepository
	licenseTypeRepo  catalog.LicenseTypeRepository
	membershipRepo   tenant.MembershipRepository
	logger           logger.Interface
}

func NewCheckMemberLimitUseCase(
	subscriptionRepo licensing.SubscriptionRepository,
	applicationRepo catalog.ApplicationRepository,
	licenseTypeRepo catalog.LicenseTypeRepository,
	membershipRepo tenant.MembershipRepository,
	logger logger.Interface,
) *CheckMemberLimitUseCase {
	return &CheckMemberLimitUseCase{
		subscriptionRepo: subscriptionRepo,
		applicationRepo:  applicationRepo,
		licenseTypeRepo:  licenseTypeRepo,
		membershipRepo:   membershipRepo,
		logger:           logger,
	}
}

// Execute compares the tenant's occupied member slots (ACTIVE plus INVITED)
// to the most permissive member limit across its usable FREE and TENANT_WIDE
// subscriptions. A nil maxMembers on any of them means unlimited and wins.
func (uc *CheckMemberLimitUseCase) Execute(ctx context.Context, tenantID uint) (*MemberLimitResult, error) {
	subs, err := uc.subscriptionRepo.ListUsableByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	occupied, err := uc.membershipRepo.CountOccupyingByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to count memberships: %w", err)
	}

	limit, limited := uc.mostPermissiveLimit(ctx, subs)
	if !limited {
		return &MemberLimitResult{CanAddMember: true, Occupied: occupied}, nil
	}

	return &MemberLimitResult{
		CanAddMember: occupied < int64(limit),
		Limit:        &limit,
		Occupied:     occupied,
	}, nil
}

// mostPermissiveLimit returns the highest maxMembers across member-limited
// subscriptions. The second return is false when no subscription caps
// membership, either because none is FREE/TENANT_WIDE or because one of
// them is unlimited.
func (uc *CheckMemberLimitUseCase) mostPermissiveLimit(ctx context.Context, subs []*licensing.AppSubscription) (int, bool) {
	best := 0
	limited := false

	for _, sub := range subs {
		app, err := uc.applicationRepo.GetByID(ctx, sub.ApplicationID())
		if err != nil {
			uc.logger.Warnw("skipping subscription with unknown application", "error", err, "subscription_id", sub.ID())
			continue
		}
		if app.LicensingMode() == catalog.LicensingModePerSeat {
			continue
		}

		lt, err := uc.licenseTypeRepo.GetByID(ctx, sub.LicenseTypeID())
		if err != nil {
			uc.logger.Warnw("skipping subscription with unknown license type", "error", err, "subscription_id", sub.ID())
			continue
		}

		if lt.MaxMembers() == nil {
			return 0, false
		}
		if *lt.MaxMembers() > best {
			best = *lt.MaxMembers()
			limited = true
		}
	}

	return best, limited
}
