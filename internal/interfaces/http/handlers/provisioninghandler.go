package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fed-stew/authvital-sub001/internal/application/provisioning/usecases"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
	"github.com/fed-stew/authvital-sub001/internal/shared/utils"
)

// ProvisioningHandler handles HTTP requests for new-tenant onboarding
type ProvisioningHandler struct {
	provisionUC   *usecases.ProvisionForNewTenantUseCase
	memberLimitUC *usecases.CheckMemberLimitUseCase
	resolver      *Resolver
	logger        logger.Interface
}

func NewProvisioningHandler(
	provisionUC *usecases.ProvisionForNewTenantUseCase,
	memberLimitUC *usecases.CheckMemberLimitUseCase,
	resolver *Resolver,
	logger logger.Interface,
) *ProvisioningHandler {
	return &ProvisioningHandler{
		provisionUC:   provisionUC,
		memberLimitUC: memberLimitUC,
		resolver:      resolver,
		logger:        logger,
	}
}

type provisionForTenantRequest struct {
	TenantID      string `json:"tenant_id" binding:"required"`
	OwnerUserID   uint   `json:"owner_user_id" binding:"required"`
	ApplicationID string `json:"application_id" binding:"required"`
	LicenseTypeID string `json:"license_type_id" binding:"required"`
}

// ProvisionForNewTenant handles POST /provisioning/tenants
func (h *ProvisioningHandler) ProvisionForNewTenant(c *gin.Context) {
	var req provisionForTenantRequest
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

	if err := h.provisionUC.Execute(ctx, usecases.ProvisionForNewTenantCommand{
		TenantID:      tenantID,
		OwnerUserID:   req.OwnerUserID,
		ApplicationID: applicationID,
		LicenseTypeID: licenseTypeID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "tenant provisioned", nil)
}

// CheckMemberLimit handles GET /provisioning/tenants/:tenant_id/member-limit
func (h *ProvisioningHandler) CheckMemberLimit(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, err := h.resolver.Tenant(ctx, c.Param("tenant_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.memberLimitUC.Execute(ctx, tenantID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
