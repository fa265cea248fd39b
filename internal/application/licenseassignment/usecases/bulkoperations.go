package usecases

import (
	"context"

	"github.com/fed-stew/authvital-sub001/internal/shared/errors"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
)

// BulkItemResult reports the outcome for one user in a bulk operation.
type BulkItemResult struct {
	UserID       uint   `json:"user_id"`
	Success      bool   `json:"success"`
	AssignmentID string `json:"assignment_id,omitempty"`
	Error        string `json:"error,omitempty"`
	ErrorType    string `json:"error_type,omitempty"`
}

// BulkResult summarizes a bulk grant or revoke.
type BulkResult struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Results   []BulkItemResult `json:"results"`
}

type GrantLicensesBulkCommand struct {
	TenantID      uint
	UserIDs       []uint
	ApplicationID uint
	LicenseTypeID uint
	AssignedByID  *uint
}

type RevokeLicensesBulkCommand struct {
	TenantID      uint
	UserIDs       []uint
	ApplicationID uint
	RevokedByID   *uint
}

type BulkLicenseUseCase struct {
	grantUC  *GrantLicenseUseCase
	revokeUC *RevokeLicenseUseCase
	logger   logger.Interface
}

func NewBulkLicenseUseCase(grantUC *GrantLicenseUseCase, revokeUC *RevokeLicenseUseCase, logger logger.Interface) *BulkLicenseUseCase {
	return &BulkLicenseUseCase{
		grantUC:  grantUC,
		revokeUC: revokeUC,
		logger:   logger,
	}
}

// GrantLicenses grants one seat per user, sequentially. Each user succeeds
// or fails on their own; the batch never aborts early, so running out of
// seats midway leaves the earlier grants in place.
func (uc *BulkLicenseUseCase) GrantLicenses(ctx context.Context, cmd GrantLicensesBulkCommand) (*BulkResult, error) {
	result := &BulkResult{Results: make([]BulkItemResult, 0, len(cmd.UserIDs))}

	for _, userID := range cmd.UserIDs {
		assignment, err := uc.grantUC.Execute(ctx, GrantLicenseCommand{
			TenantID:      cmd.TenantID,
			UserID:        userID,
			ApplicationID: cmd.ApplicationID,
			LicenseTypeID: cmd.LicenseTypeID,
			AssignedByID:  cmd.AssignedByID,
		})
		if err != nil {
			result.Failed++
			result.Results = append(result.Results, bulkFailure(userID, err))
			continue
		}
		result.Succeeded++
		result.Results = append(result.Results, BulkItemResult{
			UserID:       userID,
			Success:      true,
			AssignmentID: assignment.SID(),
		})
	}

	uc.logger.Infow("bulk license grant complete",
		"tenant_id", cmd.TenantID,
		"application_id", cmd.ApplicationID,
		"succeeded", result.Succeeded,
		"failed", result.Failed)

	return result, nil
}

// RevokeLicenses releases one seat per user, sequentially, never aborting.
func (uc *BulkLicenseUseCase) RevokeLicenses(ctx context.Context, cmd RevokeLicensesBulkCommand) (*BulkResult, error) {
	result := &BulkResult{Results: make([]BulkItemResult, 0, len(cmd.UserIDs))}

	for _, userID := range cmd.UserIDs {
		err := uc.revokeUC.Execute(ctx, RevokeLicenseCommand{
			TenantID:      cmd.TenantID,
			UserID:        userID,
			ApplicationID: cmd.ApplicationID,
			RevokedByID:   cmd.RevokedByID,
		})
		if err != nil {
			result.Failed++
			result.Results = append(result.Results, bulkFailure(userID, err))
			continue
		}
		result.Succeeded++
		result.Results = append(result.Results, BulkItemResult{UserID: userID, Success: true})
	}

	uc.logger.Infow("bulk license revoke complete",
		"tenant_id", cmd.TenantID,
		"application_id", cmd.ApplicationID,
		"succeeded", result.Succeeded,
		"failed", result.Failed)

	return result, nil
}

func bulkFailure(userID uint, err error) BulkItemResult {
	item := BulkItemResult{UserID: userID, Error: err.Error()}
	if appErr := errors.GetAppError(err); appErr != nil {
		item.ErrorType = string(appErr.Type)
	}
	return item
}
