package handler

import (
	"context"
	"time"

	procapp "github.com/fibreflow/procurement/internal/application/procurement"
	"github.com/fibreflow/procurement/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RFQHandler serves the request-for-quote lifecycle endpoints
type RFQHandler struct {
	BaseHandler
	rfqs *procapp.RFQService
}

// NewRFQHandler creates an RFQHandler
func NewRFQHandler(rfqs *procapp.RFQService) *RFQHandler {
	return &RFQHandler{rfqs: rfqs}
}

// RegisterRoutes registers RFQ routes on a project-scoped group
func (h *RFQHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rfqs := rg.Group("/rfqs")
	{
		rfqs.GET("", h.List)
		rfqs.POST("", h.Requires("rfq:write"), h.Create)
		rfqs.GET("/:id", h.Get)
		rfqs.PUT("/:id", h.Requires("rfq:write"), h.Update)
		rfqs.POST("/:id/issue", h.Requires("rfq:write"), h.Issue)
		rfqs.POST("/:id/notify", h.Requires("rfq:write"), h.Notify)
		rfqs.POST("/:id/responses-received", h.Requires("rfq:write"), h.MarkResponsesReceived)
		rfqs.POST("/:id/award", h.Requires("rfq:write"), h.Award)
		rfqs.POST("/:id/close", h.Requires("rfq:write"), h.Close)
		rfqs.POST("/:id/extend-deadline", h.Requires("rfq:write"), h.ExtendDeadline)
	}
}

// CreateRFQRequest is the request body for RFQ creation
type CreateRFQRequest struct {
	Title               string   `json:"title" binding:"required,max=255"`
	Description         string   `json:"description" binding:"omitempty,max=2000"`
	SupplierIDs         []string `json:"supplier_ids" binding:"omitempty,dive,uuid"`
	BOQID               string   `json:"boq_id" binding:"omitempty,uuid"`
	ResponseDeadline    string   `json:"response_deadline" binding:"omitempty"`
	PaymentTerms        string   `json:"payment_terms" binding:"omitempty,max=500"`
	DeliveryTerms       string   `json:"delivery_terms" binding:"omitempty,max=500"`
	ValidityPeriodDays  int      `json:"validity_period_days" binding:"omitempty,min=1,max=365"`
	Currency            string   `json:"currency" binding:"omitempty,len=3"`
	TotalBudgetEstimate string   `json:"total_budget_estimate" binding:"omitempty,decimal_nonneg"`
}

// UpdateRFQRequest carries the editable draft fields
type UpdateRFQRequest struct {
	Title         string `json:"title" binding:"required,max=255"`
	Description   string `json:"description" binding:"omitempty,max=2000"`
	PaymentTerms  string `json:"payment_terms" binding:"omitempty,max=500"`
	DeliveryTerms string `json:"delivery_terms" binding:"omitempty,max=500"`
}

// ExtendDeadlineRequest carries the new response deadline
type ExtendDeadlineRequest struct {
	ResponseDeadline string `json:"response_deadline" binding:"required"`
}

// List returns a page of RFQs, optionally filtered by status
func (h *RFQHandler) List(c *gin.Context) {
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

	result, err := h.rfqs.List(c.Request.Context(), projectID, req.Page, req.PageSize, c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Create persists a draft RFQ
func (h *RFQHandler) Create(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateRFQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	supplierIDs := make([]uuid.UUID, 0, len(req.SupplierIDs))
	for _, raw := range req.SupplierIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid supplier ID: "+raw)
			return
		}
		supplierIDs = append(supplierIDs, id)
	}

	input := procapp.CreateRFQInput{
		ProjectID:           projectID,
		Title:               req.Title,
		Description:         req.Description,
		SupplierIDs:         supplierIDs,
		PaymentTerms:        req.PaymentTerms,
		DeliveryTerms:       req.DeliveryTerms,
		ValidityPeriodDays:  req.ValidityPeriodDays,
		Currency:            req.Currency,
		TotalBudgetEstimate: parseDecimal(req.TotalBudgetEstimate),
		ActorID:             actorID,
	}
	if req.BOQID != "" {
		boqID, err := uuid.Parse(req.BOQID)
		if err != nil {
			h.BadRequest(c, "Invalid BOQ ID")
			return
		}
		input.BOQID = &boqID
	}
	if req.ResponseDeadline != "" {
		deadline, err := time.Parse(time.RFC3339, req.ResponseDeadline)
		if err != nil {
			h.BadRequest(c, "Invalid response deadline, expected RFC3339")
			return
		}
		input.ResponseDeadline = &deadline
	}

	rfq, err := h.rfqs.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rfq)
}

// Get returns one RFQ
func (h *RFQHandler) Get(c *gin.Context) {
	projectID, id, ok := h.projectAndID(c)
	if !ok {
		return
	}

	rfq, err := h.rfqs.Get(c.Request.Context(), projectID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rfq)
}

// Update edits a draft RFQ
func (h *RFQHandler) Update(c *gin.Context) {
	projectID, id, ok := h.projectAndID(c)
	if !ok {
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateRFQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	rfq, err := h.rfqs.Update(c.Request.Context(), projectID, id, procapp.UpdateInput{
		Title:         req.Title,
		Description:   req.Description,
		PaymentTerms:  req.PaymentTerms,
		DeliveryTerms: req.DeliveryTerms,
		ActorID:       actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rfq)
}

// Issue publishes a draft RFQ and notifies its suppliers
func (h *RFQHandler) Issue(c *gin.Context) {
	h.transition(c, h.rfqs.Issue)
}

// Notify re-sends the issued notification to suppliers
func (h *RFQHandler) Notify(c *gin.Context) {
	projectID, id, ok := h.projectAndID(c)
	if !ok {
		return
	}

	if err := h.rfqs.NotifySuppliers(c.Request.Context(), projectID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"notified": true})
}

// MarkResponsesReceived records supplier response arrival
func (h *RFQHandler) MarkResponsesReceived(c *gin.Context) {
	h.transition(c, h.rfqs.MarkResponsesReceived)
}

// Award marks the RFQ awarded
func (h *RFQHandler) Award(c *gin.Context) {
	h.transition(c, h.rfqs.Award)
}

// Close terminates the RFQ
func (h *RFQHandler) Close(c *gin.Context) {
	h.transition(c, h.rfqs.Close)
}

// ExtendDeadline pushes the response deadline out after issue
func (h *RFQHandler) ExtendDeadline(c *gin.Context) {
	projectID, id, ok := h.projectAndID(c)
	if !ok {
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ExtendDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	deadline, err := time.Parse(time.RFC3339, req.ResponseDeadline)
	if err != nil {
		h.BadRequest(c, "Invalid response deadline, expected RFC3339")
		return
	}

	rfq, err := h.rfqs.ExtendDeadline(c.Request.Context(), projectID, id, deadline, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rfq)
}

type rfqTransition func(ctx context.Context, projectID, id uuid.UUID, actorID uuid.UUID) (*procapp.RFQResponse, error)

// transition runs one parameterless lifecycle change
func (h *RFQHandler) transition(c *gin.Context, fn rfqTransition) {
	projectID, id, ok := h.projectAndID(c)
	if !ok {
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	rfq, err := fn(c.Request.Context(), projectID, id, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rfq)
}

// projectAndID extracts the project scope and the RFQ path ID
func (h *RFQHandler) projectAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	projectID, err := getProjectID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid RFQ ID")
		return uuid.Nil, uuid.Nil, false
	}
	return projectID, id, true
}
