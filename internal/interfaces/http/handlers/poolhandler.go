package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	assignmentUsecases "github.com/fed-stew/authvital-sub001/internal/application/licenseassignment/usecases"
	"github.com/fed-stew/authvital-sub001/internal/application/licensepool/usecases"
	"github.com/fed-stew/authvital-sub001/internal/domain/licensing"
	"github.com/fed-stew/authvital-sub001/internal/shared/id"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
	"github.com/fed-stew/authvital-sub001/internal/shared/utils"
)

// PoolHandler handles HTTP requests for subscription inventory operations
type PoolHandler struct {
	provisionUC   *usecases.ProvisionSubscriptionUseCase
	updateQtyUC   *usecases.UpdateQuantityUseCase
	cancelUC      *usecases.CancelSubscriptionUseCase
	renewUC       *usecases.RenewSubscriptionUseCase
	expireUC      *usecases.ExpireSubscriptionUseCase
	reconcileUC   *usecases.ReconcileAssignedCountUseCase
	overviewUC    *usecases.GetUsageOverviewUseCase
	memberCheckUC *usecases.CheckMemberAccessUseCase
	auditUC       *assignmentUsecases.GetAuditLogUseCase
	holdersUC     *assignmentUsecases.LicenseQueryUseCase
	resolver      *Resolver
	logger        logger.Interface
}

func NewPoolHandler(
	provisionUC *usecases.ProvisionSubscriptionUseCase,
	updateQtyUC *usecases.UpdateQuantityUseCase,
	cancelUC *usecases.CancelSubscriptionUseCase,
	renewUC *usecases.RenewSubscriptionUseCase,
	expireUC *usecases.ExpireSubscriptionUseCase,
	reconcileUC *usecases.ReconcileAssignedCountUseCase,
	overviewUC *usecases.GetUsageOverviewUseCase,
	memberCheckUC *usecases.CheckMemberAccessUseCase,
	auditUC *assignmentUsecases.GetAuditLogUseCase,
	holdersUC *assignmentUsecases.LicenseQueryUseCase,
	resolver *Resolver,
	logger logger.Interface,
) *PoolHandler {
	return &PoolHandler{
		provisionUC:   provisionUC,
		updateQtyUC:   updateQtyUC,
		cancelUC:      cancelUC,
		renewUC:       renewUC,
		expireUC:      expireUC,
		reconcileUC:   reconcileUC,
		overviewUC:    overviewUC,
		memberCheckUC: memberCheckUC,
		auditUC:       auditUC,
		holdersUC:     holdersUC,
		resolver:      resolver,
		logger:        logger,
	}
}

type provisionSubscriptionRequest struct {
	TenantID          string     `json:"tenant_id" binding:"required"`
	ApplicationID     string     `json:"application_id" binding:"required"`
	LicenseTypeID     string     `json:"license_type_id" binding:"required"`
	QuantityPurchased int        `json:"quantity_purchased" binding:"required,min=1"`
	Status            string     `json:"status"`
	CurrentPeriodEnd  *time.Time `json:"current_period_end"`
}

// ProvisionSubscription handles POST /licenses/subscriptions
func (h *PoolHandler) ProvisionSubscription(c *gin.Context) {
	var req provisionSubscriptionRequest
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

	sub, err := h.provisionUC.Execute(ctx, usecases.ProvisionSubscriptionCommand{
		TenantID:          tenantID,
		ApplicationID:     applicationID,
		LicenseTypeID:     licenseTypeID,
		QuantityPurchased: req.QuantityPurchased,
		Status:            licensing.SubscriptionStatus(req.Status),
		CurrentPeriodEnd:  req.CurrentPeriodEnd,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, subscriptionResponse(sub), "subscription provisioned")
}

type updateQuantityRequest struct {
	QuantityPurchased int `json:"quantity_purchased" binding:"required,min=1"`
}

// UpdateQuantity handles PATCH /licenses/subscriptions/:subscription_id/quantity
func (h *PoolHandler) UpdateQuantity(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "subscription_id", id.PrefixSubscription, "subscription")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	sub, err := h.updateQtyUC.Execute(c.Request.Context(), usecases.UpdateQuantityCommand{
		SubscriptionSID:      sid,
		NewQuantityPurchased: req.QuantityPurchased,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "quantity updated", subscriptionResponse(sub))
}

// CancelSubscription handles POST /licenses/subscriptions/:subscription_id/cancel
func (h *PoolHandler) CancelSubscription(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "subscription_id", id.PrefixSubscription, "subscription")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	sub, err := h.cancelUC.Execute(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription canceled", subscriptionResponse(sub))
}

type renewSubscriptionRequest struct {
	CurrentPeriodEnd time.Time `json:"current_period_end" binding:"required"`
}

// RenewSubscription handles POST /licenses/subscriptions/:subscription_id/renew
func (h *PoolHandler) RenewSubscription(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "subscription_id", id.PrefixSubscription, "subscription")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req renewSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	sub, err := h.renewUC.Execute(c.Request.Context(), usecases.RenewSubscriptionCommand{
		SubscriptionSID:  sid,
		CurrentPeriodEnd: req.CurrentPeriodEnd,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription renewed", subscriptionResponse(sub))
}

// ExpireSubscription handles POST /licenses/subscriptions/:subscription_id/expire
func (h *PoolHandler) ExpireSubscription(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "subscription_id", id.PrefixSubscription, "subscription")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.expireUC.Execute(c.Request.Context(), sid); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription expired", nil)
}

// ReconcileAssignedCount handles POST /licenses/subscriptions/:subscription_id/reconcile
func (h *PoolHandler) ReconcileAssignedCount(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "subscription_id", id.PrefixSubscription, "subscription")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	count, err := h.reconcileUC.Execute(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "assigned count reconciled", gin.H{
		"quantity_assigned": count,
	})
}

// GetSubscriptionAssignments handles GET /licenses/subscriptions/:subscription_id/assignments
func (h *PoolHandler) GetSubscriptionAssignments(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "subscription_id", id.PrefixSubscription, "subscription")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	holders, err := h.holdersUC.GetSubscriptionAssignments(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"assignments": holders})
}

// GetUsageOverview handles GET /licenses/tenants/:tenant_id/usage-overview
func (h *PoolHandler) GetUsageOverview(c *gin.Context) {
	tenantSID := c.Param("tenant_id")
	if err := id.ValidatePrefix(tenantSID, id.PrefixTenant); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid tenant ID format")
		return
	}

	overview, err := h.overviewUC.Execute(c.Request.Context(), tenantSID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", overview)
}

// GetAuditLog handles GET /licenses/tenants/:tenant_id/audit-log?limit&offset
func (h *PoolHandler) GetAuditLog(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, err := h.resolver.Tenant(ctx, c.Param("tenant_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	limit := utils.ParseQueryInt(c, "limit", 50)
	offset := utils.ParseQueryInt(c, "offset", 0)

	page, err := h.auditUC.Execute(ctx, tenantID, limit, offset)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", page)
}

// CheckMemberAccess handles GET /licenses/tenants/:tenant_id/applications/:application_id/member-access
func (h *PoolHandler) CheckMemberAccess(c *gin.Context) {
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

	result, err := h.memberCheckUC.Execute(ctx, usecases.CheckMemberAccessQuery{
		TenantID:      tenantID,
		ApplicationID: applicationID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func subscriptionResponse(sub *licensing.AppSubscription) gin.H {
	resp := gin.H{
		"subscription_id":    sub.SID(),
		"status":             string(sub.Status()),
		"quantity_purchased": sub.QuantityPurchased(),
		"quantity_assigned":  sub.QuantityAssigned(),
		"seats_available":    sub.AvailableSeats(),
		"auto_renew":         sub.AutoRenew(),
	}
	if end := sub.CurrentPeriodEnd(); end != nil {
		resp["current_period_end"] = end
	}
	return resp
}
