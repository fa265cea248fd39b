package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fed-stew/authvital-sub001/internal/application/appaccess"
	"github.com/fed-stew/authvital-sub001/internal/domain/access"
	"github.com/fed-stew/authvital-sub001/internal/shared/logger"
	"github.com/fed-stew/authvital-sub001/internal/shared/utils"
)

// AccessHandler handles HTTP requests for app access records
type AccessHandler struct {
	accessService *appaccess.Service
	resolver      *Resolver
	logger        logger.Interface
}

func NewAccessHandler(accessService *appaccess.Service, resolver *Resolver, logger logger.Interface) *AccessHandler {
	return &AccessHandler{
		accessService: accessService,
		resolver:      resolver,
		logger:        logger,
	}
}

type grantAccessRequest struct {
	TenantID      string `json:"tenant_id" binding:"required"`
	UserID        uint   `json:"user_id" binding:"required"`
	ApplicationID string `json:"application_id" binding:"required"`
	AccessType    string `json:"access_type"`
	GrantedByID   *uint  `json:"granted_by_id"`
}

// GrantAccess handles POST /access/grant
func (h *AccessHandler) GrantAccess(c *gin.Context) {
	var req grantAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	accessType := access.AccessType(req.AccessType)
	if req.AccessType == "" {
		accessType = access.AccessTypeGranted
	}
	if !accessType.IsValid() {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid access type")
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

	record, err := h.accessService.GrantAccess(ctx, tenantID, req.UserID, applicationID, accessType, req.GrantedByID, nil)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "access granted", gin.H{
		"access_id":   record.SID(),
		"access_type": string(record.AccessType()),
		"status":      string(record.Status()),
	})
}

type revokeAccessRequest struct {
	TenantID      string `json:"tenant_id" binding:"required"`
	UserID        uint   `json:"user_id" binding:"required"`
	ApplicationID string `json:"application_id" binding:"required"`
	RevokedByID   *uint  `json:"revoked_by_id"`
}

// RevokeAccess handles POST /access/revoke
func (h *AccessHandler) RevokeAccess(c *gin.Context) {
	var req revokeAccessRequest
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

	if err := h.accessService.RevokeAccess(ctx, tenantID, req.UserID, applicationID, req.RevokedByID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "access revoked", nil)
}

type suspendAccessRequest struct {
	TenantID      string `json:"tenant_id" binding:"required"`
	UserID        uint   `json:"user_id" binding:"required"`
	ApplicationID string `json:"application_id" binding:"required"`
}

// SuspendAccess handles POST /access/suspend
func (h *AccessHandler) SuspendAccess(c *gin.Context) {
	var req suspendAccessRequest
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

	if err := h.accessService.SuspendAccess(ctx, tenantID, req.UserID, applicationID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "access suspended", nil)
}

// CheckAccess handles GET /access/check?tenant_id&user_id&application_id
func (h *AccessHandler) CheckAccess(c *gin.Context) {
	ctx := c.Request.Context()

	tenantID, err := h.resolver.Tenant(ctx, c.Query("tenant_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	uid, err := strconv.ParseUint(c.Query("user_id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid user_id")
		return
	}

	applicationID, err := h.resolver.Application(ctx, c.Query("application_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.accessService.CheckAccess(ctx, tenantID, uint(uid), applicationID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

type checkAccessBulkRequest struct {
	TenantID       string   `json:"tenant_id" binding:"required"`
	UserID         uint     `json:"user_id" binding:"required"`
	ApplicationIDs []string `json:"application_ids" binding:"required,min=1"`
}

// CheckAccessBulk handles POST /access/check-bulk
func (h *AccessHandler) CheckAccessBulk(c *gin.Context) {
	var req checkAccessBulkRequest
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

	applicationIDs := make([]uint, 0, len(req.ApplicationIDs))
	bySID := make(map[uint]string, len(req.ApplicationIDs))
	for _, sid := range req.ApplicationIDs {
		appID, err := h.resolver.Application(ctx, sid)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
		applicationIDs = append(applicationIDs, appID)
		bySID[appID] = sid
	}

	results, err := h.accessService.CheckAccessBulk(ctx, tenantID, req.UserID, applicationIDs)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	response := make(map[string]*appaccess.CheckAccessResult, len(results))
	for appID, result := range results {
		response[bySID[appID]] = result
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"results": response})
}

type revokeAllAccessRequest struct {
	TenantID    string `json:"tenant_id" binding:"required"`
	UserID      uint   `json:"user_id" binding:"required"`
	RevokedByID *uint  `json:"revoked_by_id"`
}

// RevokeAllForUser handles POST /access/revoke-all
func (h *AccessHandler) RevokeAllForUser(c *gin.Context) {
	var req revokeAllAccessRequest
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

	if err := h.accessService.RevokeAllForUser(ctx, tenantID, req.UserID, req.RevokedByID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "access revoked for all applications", nil)
}
