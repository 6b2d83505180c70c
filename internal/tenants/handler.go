package tenants

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"screening-backend/internal/shared/server/middleware"
	"screening-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the tenants service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches tenant routes to the router group. Mutating
// routes require the admin role.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/tenants", middleware.RequireRole("admin"), h.createTenant)
	rg.GET("/tenants", middleware.RequireRole("admin"), h.listTenants)
	rg.GET("/tenants/:id", h.getTenant)
	rg.POST("/tenants/:id/suspend", middleware.RequireRole("admin"), h.suspendTenant)
	rg.POST("/tenants/:id/activate", middleware.RequireRole("admin"), h.activateTenant)
	rg.POST("/tenants/:id/business-units", middleware.RequireRole("admin"), h.createBusinessUnit)
	rg.GET("/tenants/:id/business-units", h.listBusinessUnits)
}

func (h *Handler) createTenant(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
		Plan string `json:"plan"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), req.Name, req.Plan)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	respond.JSON(c, http.StatusCreated, t)
}

func (h *Handler) listTenants(c *gin.Context) {
	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	items, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list tenants", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"items": items})
}

func (h *Handler) getTenant(c *gin.Context) {
	tenantID := c.Param("id")
	if tenantID != middleware.TenantIDFromContext(c) && middleware.RoleFromContext(c) != "admin" {
		respond.Error(c, http.StatusForbidden, "forbidden", "tenant mismatch", nil)
		return
	}
	t, err := h.Svc.Get(c.Request.Context(), tenantID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "tenant not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch tenant", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, t)
}

func (h *Handler) suspendTenant(c *gin.Context) {
	h.setStatus(c, h.Svc.Suspend)
}

func (h *Handler) activateTenant(c *gin.Context) {
	h.setStatus(c, h.Svc.Activate)
}

func (h *Handler) setStatus(c *gin.Context, fn func(ctx context.Context, tenantID string) error) {
	if err := fn(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "tenant not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update tenant", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) createBusinessUnit(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	bu, err := h.Svc.CreateBusinessUnit(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "tenant not found", nil)
		case errors.Is(err, ErrDuplicateName):
			respond.Error(c, http.StatusConflict, "conflict", "business unit already exists", nil)
		default:
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, bu)
}

func (h *Handler) listBusinessUnits(c *gin.Context) {
	units, err := h.Svc.ListBusinessUnits(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list business units", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"items": units})
}
