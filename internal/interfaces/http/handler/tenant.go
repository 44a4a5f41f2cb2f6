package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apptenancy "github.com/paragon/backend/internal/application/tenancy"
	"github.com/paragon/backend/internal/interfaces/http/dto"
	"github.com/paragon/backend/internal/interfaces/http/middleware"
)

// TenantHandler serves the tenant register
type TenantHandler struct {
	BaseHandler
	tenancy *apptenancy.Service
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenancy *apptenancy.Service) *TenantHandler {
	return &TenantHandler{tenancy: tenancy}
}

func tenantInput(req dto.TenantRequest) apptenancy.TenantInput {
	return apptenancy.TenantInput{
		Name:         req.Name,
		NINumber:     req.NINumber,
		Email:        req.Email,
		Phone:        req.Phone,
		DateOfBirth:  req.DateOfBirth,
		Occupation:   req.Occupation,
		AnnualSalary: req.AnnualSalary,
		Pets:         req.Pets,
		RightToRent:  req.RightToRent,
		CreditCheck:  req.CreditCheck,
	}
}

// List lists tenants, optionally by location or search term
func (h *TenantHandler) List(c *gin.Context) {
	var req dto.TenantListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	page, err := h.tenancy.ListTenants(c.Request.Context(), middleware.GetScope(c), apptenancy.TenantFilter{
		Filter:     req.Filter(),
		LocationID: req.LocationID,
		Search:     req.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(page, dto.ToTenantResponse))
}

// Get returns one tenant
func (h *TenantHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	tenant, err := h.tenancy.GetTenant(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToTenantResponse(tenant))
}

// Create registers a tenant
func (h *TenantHandler) Create(c *gin.Context) {
	var req dto.TenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	tenant, err := h.tenancy.CreateTenant(c.Request.Context(), middleware.GetScope(c), tenantInput(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.ToTenantResponse(tenant))
}

// Update replaces a tenant's details
func (h *TenantHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req dto.TenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	tenant, err := h.tenancy.UpdateTenant(c.Request.Context(), middleware.GetScope(c), id, tenantInput(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToTenantResponse(tenant))
}

// Delete removes a tenant
func (h *TenantHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.tenancy.DeleteTenant(c.Request.Context(), middleware.GetScope(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
