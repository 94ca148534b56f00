package handler

import (
	"time"

	"github.com/fibreflow/procurement/internal/domain/audit"
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/fibreflow/procurement/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Audit queries default to the last 30 days when no range is given
const defaultAuditWindow = 30 * 24 * time.Hour

// AuditHandler serves read-only audit trail queries
type AuditHandler struct {
	BaseHandler
	records audit.Repository
}

// NewAuditHandler creates an AuditHandler
func NewAuditHandler(records audit.Repository) *AuditHandler {
	return &AuditHandler{records: records}
}

// RegisterRoutes registers audit routes on a project-scoped group
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auditGroup := rg.Group("/audit")
	{
		auditGroup.GET("", h.ListForProject)
		auditGroup.GET("/:resource/:resourceId", h.ListForResource)
	}
}

// ListForProject lists audit records for the project within a time range
func (h *AuditHandler) ListForProject(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	to := time.Now()
	from := to.Add(-defaultAuditWindow)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid from timestamp, expected RFC3339")
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid to timestamp, expected RFC3339")
			return
		}
		to = parsed
	}

	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	filter.Clamp(20, 200)
	if action := c.Query("action"); action != "" {
		filter.Filters["action"] = action
	}
	if resource := c.Query("resource"); resource != "" {
		filter.Filters["resource"] = resource
	}

	records, err := h.records.FindByProject(c.Request.Context(), projectID, from, to, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// ListForResource lists the audit history of one resource, newest first
func (h *AuditHandler) ListForResource(c *gin.Context) {
	resourceID, err := uuid.Parse(c.Param("resourceId"))
	if err != nil {
		h.BadRequest(c, "Invalid resource ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	filter.Clamp(20, 200)

	records, err := h.records.FindByResource(c.Request.Context(), c.Param("resource"), resourceID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}
