package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fed-stew/authvital-sub001/internal/application/licenseassignment/usecases"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
	"github.com/fed-stew/authvital-sub001/internal/shared/utils"
)

// LicenseHandler handles HTTP requests for license assignment operations
type LicenseHandler struct {
	grantUC  grantLicenseUseCase
	revokeUC revokeLicenseUseCase
	changeUC changeLicenseTypeUseCase
	bulkUC   bulkLicenseUseCase
	checkUC  checkLicenseUseCase
	queryUC  licenseQueryUseCase
	resolver *Resolver
	logger   logger.Interface
}

func NewLicenseHandler(
	grantUC grantLicenseUseCase,
	revokeUC revokeLicenseUseCase,
	changeUC changeLicenseTypeUseCase,
	bulkUC bulkLicenseUseCase,
	checkUC checkLicenseUseCase,
	queryUC licenseQueryUseCase,
	resolver *Resolver,
	logger logger.Interface,
) *LicenseHandler {
	return &LicenseHandler{
		grantUC:  grantUC,
		revokeUC: revokeUC,
		changeUC: changeUC,
		bulkUC:   bulkUC,
		checkUC:  checkUC,
		queryUC:  queryUC,
		resolver: resolver,
		logger:   logger,
	}
}

type grantLicenseRequest struct {
	TenantID      string `json:"tenant_id" binding:"required"`
	UserID        uint   `json:"user_id" binding:"required"`
	ApplicationID string `json:"application_id" binding:"required"`
	LicenseTypeID string `json:"license_type_id" binding:"required"`
	AssignedByID  *uint  `json:"assigned_by_id"`
}

// GrantLicense handles POST /licenses/grant
func (h *LicenseHandler) GrantLicense(c *gin.Context) {
	var req grantLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	tenantID, err := h.resolver.Tenant(ctx, req.TenantID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	applicationID, err := h.resolver.Application(ctx, req.ApplicationID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	licenseTypeID, err := h.resolver.LicenseType(ctx, req.LicenseTypeID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	assignment, err := h.grantUC.Execute(ctx, usecases.GrantLicenseCommand{
		TenantID:      tenantID,
		UserID:        req.UserID,
		ApplicationID: applicationID,
		LicenseTypeID: licenseTypeID,
		AssignedByID:  req.AssignedByID,
	})
	if err != nil {
		h.logger.Warnw("license grant failed", "error", err, "tenant_id", req.TenantID, "user_id", req.UserID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"assignment_id": assignment.SID(),
	}, "license granted")
}

type revokeLicenseRequest struct {
	TenantID      string `json:"tenant_id" binding:"required"`
	UserID        uint   `json:"user_id" binding:"required"`
	ApplicationID string `json:"application_id" binding:"required"`
	RevokedByID   *uint  `json:"revoked_by_id"`
}

// RevokeLicense handles POST /licenses/revoke
func (h *LicenseHandler) RevokeLicense(c *gin.Context) {
	var req revokeLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	tenantID, err := h.resolver.Tenant(ctx, req.TenantID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	applicationID, err := h.resolver.Application(ctx, req.ApplicationID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.revokeUC.Execute(ctx, usecases.RevokeLicenseCommand{
		TenantID:      tenantID,
		UserID:        req.UserID,
		ApplicationID: applicationID,
		RevokedByID:   req.RevokedByID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "license revoked", nil)
}

type changeLicenseTypeRequest struct {
	TenantID         string `json:"tenant_id" binding:"required"`
	UserID           uint   `json:"user_id" binding:"required"`
	ApplicationID    string `json:"application_id" binding:"required"`
	NewLicenseTypeID string `json:"new_license_type_id" binding:"required"`
	ChangedByID      *uint  `json:"changed_by_id"`
}

// ChangeLicenseType handles POST /licenses/change-type
func (h *LicenseHandler) ChangeLicenseType(c *gin.Context) {
	var req changeLicenseTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	tenantID, err := h.resolver.Tenant(ctx, req.TenantID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	applicationID, err := h.resolver.Application(ctx, req.ApplicationID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	newLicenseTypeID, err := h.resolver.LicenseType(ctx, req.NewLicenseTypeID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if _, err := h.changeUC.Execute(ctx, usecases.ChangeLicenseTypeCommand{
		TenantID:         tenantID,
		UserID:           req.UserID,
		ApplicationID:    applicationID,
		NewLicenseTypeID: newLicenseTypeID,
		ChangedByID:      req.ChangedByID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "license type changed", nil)
}

type bulkGrantRequest struct {
	TenantID      string `json:"tenant_id" binding:"required"`
	UserIDs       []uint `json:"user_ids" binding:"required,min=1" validate:"max=100,dive,gt=0"`
	ApplicationID string `json:"application_id" binding:"required"`
	LicenseTypeID string `json:"license_type_id" binding:"required"`
	AssignedByID  *uint  `json:"assigned_by_id"`
}

// GrantLicensesBulk handles POST /licenses/grant-bulk
func (h *LicenseHandler) GrantLicensesBulk(c *gin.Context) {
	var req bulkGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	tenantID, err := h.resolver.Tenant(ctx, req.TenantID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	applicationID, err := h.resolver.Application(ctx, req.ApplicationID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	licenseTypeID, err := h.resolver.LicenseType(ctx, req.LicenseTypeID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.bulkUC.GrantLicenses(ctx, usecases.GrantLicensesBulkCommand{
		TenantID:      tenantID,
		UserIDs:       req.UserIDs,
		ApplicationID: applicationID,
		LicenseTypeID: licenseTypeID,
		AssignedByID:  req.AssignedByID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

type bulkRevokeRequest struct {
	TenantID      string `json:"tenant_id" binding:"required"`
	UserIDs       []uint `json:"user_ids" binding:"required,min=1" validate:"max=100,dive,gt=0"`
	ApplicationID string `json:"application_id" binding:"required"`
	RevokedByID   *uint  `json:"revoked_by_id"`
}

// RevokeLicensesBulk handles POST /licenses/revoke-bulk
func (h *LicenseHandler) RevokeLicensesBulk(c *gin.Context) {
	var req bulkRevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	tenantID, err := h.resolver.Tenant(ctx, req.TenantID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	applicationID, err := h.resolver.Application(ctx, req.ApplicationID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.bulkUC.RevokeLicenses(ctx, usecases.RevokeLicensesBulkCommand{
		TenantID:      tenantID,
		UserIDs:       req.UserIDs,
		ApplicationID: applicationID,
		RevokedByID:   req.RevokedByID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CheckLicense handles GET /licenses/check?tenant_id&user_id&application_id
func (h *LicenseHandler) CheckLicense(c *gin.Context) {
	tenantID, userID, applicationID, ok := h.parseCheckParams(c)
	if !ok {
		return
	}

	result, err := h.checkUC.CheckLicense(c.Request.Context(), tenantID, userID, applicationID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CheckFeature handles GET /licenses/feature?tenant_id&user_id&application_id&feature_key
func (h *LicenseHandler) CheckFeature(c *gin.Context) {
	tenantID, userID, applicationID, ok := h.parseCheckParams(c)
	if !ok {
		return
	}

	featureKey := c.Query("feature_key")
	if featureKey == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "feature_key is required")
		return
	}

	result, err := h.checkUC.CheckFeature(c.Request.Context(), tenantID, userID, applicationID, featureKey)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetUserLicenses handles GET /licenses/tenants/:tenant_id/users/:user_id
func (h *LicenseHandler) GetUserLicenses(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, err := h.resolver.Tenant(ctx, c.Param("tenant_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid user ID")
		return
	}

	licenses, err := h.queryUC.GetUserLicenses(ctx, tenantID, uint(userID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"licenses": licenses})
}

// GetAppLicenseHolders handles GET /licenses/tenants/:tenant_id/applications/:application_id/holders
func (h *LicenseHandler) GetAppLicenseHolders(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, err := h.resolver.Tenant(ctx, c.Param("tenant_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	applicationID, err := h.resolver.Application(ctx, c.Param("application_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	holders, err := h.queryUC.GetAppLicenseHolders(ctx, tenantID, applicationID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"holders": holders})
}

// GetTenantMembersWithLicenses handles GET /licenses/tenants/:tenant_id/members
func (h *LicenseHandler) GetTenantMembersWithLicenses(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, err := h.resolver.Tenant(ctx, c.Param("tenant_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	members, err := h.queryUC.GetTenantMembersWithLicenses(ctx, tenantID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"members": members})
}

func (h *LicenseHandler) parseCheckParams(c *gin.Context) (tenantID, userID, applicationID uint, ok bool) {
	ctx := c.Request.Context()

	tenantID, err := h.resolver.Tenant(ctx, c.Query("tenant_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return 0, 0, 0, false
	}

	uid, err := strconv.ParseUint(c.Query("user_id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid user_id")
		return 0, 0, 0, false
	}

	applicationID, err = h.resolver.Application(ctx, c.Query("application_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return 0, 0, 0, false
	}

	return tenantID, uint(uid), applicationID, true
}
