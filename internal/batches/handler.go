package batches

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"screening-backend/internal/jobdescriptions"
	"screening-backend/internal/resumes"
	"screening-backend/internal/shared/server/middleware"
	"screening-backend/internal/shared/server/respond"
)

// Handler wires screening and batch history endpoints to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches screening and batch routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/screenings", h.createScreening)
	rg.GET("/batches", h.list)
	rg.GET("/batches/:id", h.get)
}

func (h *Handler) createScreening(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)
	if tenantID == "" {
		respond.Error(c, http.StatusForbidden, "forbidden", "tenant scope required", nil)
		return
	}

	var req struct {
		JobDescriptionID string   `json:"jobDescriptionId"`
		ResumeIDs        []string `json:"resumeIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	batch, created, err := h.Svc.CreateScreening(c.Request.Context(), tenantID, middleware.UserIDFromContext(c), req.JobDescriptionID, req.ResumeIDs)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "a job description and at least one resume are required", nil)
		case errors.Is(err, jobdescriptions.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job description not found", nil)
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		case errors.Is(err, ErrQuotaExceeded):
			respond.Error(c, http.StatusTooManyRequests, "quota_exceeded", "screening quota exceeded for this period", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create screening", nil)
		}
		return
	}

	jobIDs := make([]string, 0, len(created))
	for _, job := range created {
		jobIDs = append(jobIDs, job.ID)
	}
	c.Set("batchId", batch.ID)
	respond.JSON(c, http.StatusCreated, gin.H{"batch": batch, "jobIds": jobIDs})
}

func (h *Handler) get(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)
	detail, err := h.Svc.Get(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "batch not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch batch", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, detail)
}

func (h *Handler) list(c *gin.Context) {
	tenantID := middleware.TenantIDFromContext(c)

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

	items, err := h.Svc.List(c.Request.Context(), tenantID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list batches", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"items": items})
}
