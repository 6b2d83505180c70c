package results

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"screening-backend/internal/shared/server/middleware"
	"screening-backend/internal/shared/server/respond"
)

// Handler exposes per-job results and reports over HTTP.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches result routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs/:id/result", h.getResult)
	rg.GET("/jobs/:id/report", h.getReport)
}

func (h *Handler) getResult(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)
	if tenantID == "" {
		respond.Error(c, http.StatusForbidden, "forbidden", "tenant scope required", nil)
		return
	}

	jobID := c.Param("id")
	res, err := h.Svc.Get(c.Request.Context(), tenantID, jobID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "no result for job", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch result", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"result":    res,
		"reportUrl": fmt.Sprintf("/api/v1/jobs/%s/report", jobID),
	})
}

func (h *Handler) getReport(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)
	if tenantID == "" {
		respond.Error(c, http.StatusForbidden, "forbidden", "tenant scope required", nil)
		return
	}

	rc, err := h.Svc.OpenReport(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "no report for job", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open report", nil)
		}
		return
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read report", nil)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}
