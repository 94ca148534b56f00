package handler

import (
	stockapp "github.com/fibreflow/procurement/internal/application/stock"
	"github.com/fibreflow/procurement/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// CableDrumHandler serves cable drum and meter reading endpoints
type CableDrumHandler struct {
	BaseHandler
	drums *stockapp.DrumService
}

// NewCableDrumHandler creates a CableDrumHandler
func NewCableDrumHandler(drums *stockapp.DrumService) *CableDrumHandler {
	return &CableDrumHandler{drums: drums}
}

// RegisterRoutes registers drum routes on a project-scoped group
func (h *CableDrumHandler) RegisterRoutes(rg *gin.RouterGroup) {
	drums := rg.Group("/stock/drums")
	{
		drums.GET("", h.List)
		drums.POST("", h.Requires("stock:write"), h.Create)
		drums.GET("/:drumNumber/usage", h.UsageHistory)
		drums.POST("/:drumNumber/usage", h.Requires("stock:write"), h.RecordUsage)
	}
}

// CreateDrumRequest is the request body for drum registration
type CreateDrumRequest struct {
	DrumNumber     string `json:"drum_number" binding:"required,max=100"`
	CableType      string `json:"cable_type" binding:"required,max=255"`
	ItemCode       string `json:"item_code" binding:"omitempty,max=100"`
	OriginalLength string `json:"original_length" binding:"required,decimal_positive"`
	Location       string `json:"location" binding:"omitempty,max=255"`
}

// RecordUsageRequest is the request body for one meter reading event
type RecordUsageRequest struct {
	PreviousReading string `json:"previous_reading" binding:"required,decimal_nonneg"`
	CurrentReading  string `json:"current_reading" binding:"required,decimal_nonneg"`
	UsedLength      string `json:"used_length" binding:"required,decimal_positive"`
	PoleNumber      string `json:"pole_number" binding:"omitempty,max=100"`
	SectionID       string `json:"section_id" binding:"omitempty,max=100"`
	Notes           string `json:"notes" binding:"omitempty,max=1000"`
}

// List returns a page of drums for the project
func (h *CableDrumHandler) List(c *gin.Context) {
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

	result, err := h.drums.ListDrums(c.Request.Context(), projectID, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Create registers a new cable drum
func (h *CableDrumHandler) Create(c *gin.Context) {
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

	var req CreateDrumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	drum, err := h.drums.CreateDrum(c.Request.Context(), stockapp.CreateDrumInput{
		ProjectID:      projectID,
		DrumNumber:     req.DrumNumber,
		CableType:      req.CableType,
		ItemCode:       req.ItemCode,
		OriginalLength: parseDecimal(req.OriginalLength),
		Location:       req.Location,
		ActorID:        actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, drum)
}

// RecordUsage validates a meter reading and appends a usage event
func (h *CableDrumHandler) RecordUsage(c *gin.Context) {
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

	var req RecordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	drum, err := h.drums.RecordUsage(c.Request.Context(), stockapp.RecordUsageInput{
		ProjectID:       projectID,
		DrumNumber:      c.Param("drumNumber"),
		PreviousReading: parseDecimal(req.PreviousReading),
		CurrentReading:  parseDecimal(req.CurrentReading),
		UsedLength:      parseDecimal(req.UsedLength),
		PoleNumber:      req.PoleNumber,
		SectionID:       req.SectionID,
		Notes:           req.Notes,
		ActorID:         actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, drum)
}

// UsageHistory lists the usage events for a drum, oldest first
func (h *CableDrumHandler) UsageHistory(c *gin.Context) {
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

	history, err := h.drums.GetUsageHistory(c.Request.Context(), projectID, c.Param("drumNumber"), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}
