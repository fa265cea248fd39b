package usecases

import (
	"context"
	"fmt"

	"github.com/fed-stew/authvital-sub001/internal/domain/catalog"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// CheckLicenseResult answers whether a user holds a license and which type.
type CheckLicenseResult struct {
	HasLicense      bool   `json:"has_license"`
	LicenseTypeID   string `json:"license_type_id,omitempty"`
	LicenseTypeName string `json:"license_type_name,omitempty"`
}

// CheckFeatureResult answers whether a user's license includes a feature.
type CheckFeatureResult struct {
	HasFeature      bool   `json:"has_feature"`
	LicenseTypeName string `json:"license_type_name,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

type CheckLicenseUseCase struct {
	assignmentRepo  licensing.AssignmentRepository
	licenseTypeRepo catalog.LicenseTypeRepository
	logger          logger.Interface
}

func NewCheckLicenseUseCase(
	assignmentRepo licensing.AssignmentRepository,
	licenseTypeRepo catalog.LicenseTypeRepository,
	logger logger.Interface,
) *CheckLicenseUseCase {
	return &CheckLicenseUseCase{
		assignmentRepo:  assignmentRepo,
		licenseTypeRepo: licenseTypeRepo,
		logger:          logger,
	}
}

// CheckLicense reports whether the user holds a seat for the application.
func (uc *CheckLicenseUseCase) CheckLicense(ctx context.Context, tenantID, userID, applicationID uint) (*CheckLicenseResult, error) {
	assignment, err := uc.assignmentRepo.GetByTenantUserApp(ctx, tenantID, userID, applicationID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return &CheckLicenseResult{HasLicense: false}, nil
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	result := &CheckLicenseResult{
		HasLicense:      true,
		LicenseTypeName: assignment.LicenseTypeName(),
	}
	if lt, err := uc.licenseTypeRepo.GetByID(ctx, assignment.LicenseTypeID()); err == nil {
		result.LicenseTypeID = lt.SID()
	}
	return result, nil
}

// CheckFeature reports whether the user's license type enables a feature
// flag. A user without a license never has the feature.
func (uc *CheckLicenseUseCase) CheckFeature(ctx context.Context, tenantID, userID, applicationID uint, feature string) (*CheckFeatureResult, error) {
	assignment, err := uc.assignmentRepo.GetByTenantUserApp(ctx, tenantID, userID, applicationID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return &CheckFeatureResult{HasFeature: false, Reason: "no license"}, nil
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	lt, err := uc.licenseTypeRepo.GetByID(ctx, assignment.LicenseTypeID())
	if err != nil {
		if errors.IsNotFoundError(err) {
			return &CheckFeatureResult{HasFeature: false, Reason: "license type not found"}, nil
		}
		return nil, fmt.Errorf("failed to get license type: %w", err)
	}

	result := &CheckFeatureResult{
		HasFeature:      lt.HasFeature(feature),
		LicenseTypeName: lt.Name(),
	}
	if !result.HasFeature {
		result.Reason = "feature not included in license type"
	}
	return result, nil
}
