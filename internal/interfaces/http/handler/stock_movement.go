package handler

import (
	stockapp "github.com/fibreflow/procurement/internal/application/stock"
	"github.com/fibreflow/procurement/internal/domain/stock"
	"github.com/fibreflow/procurement/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockMovementHandler serves the movement ledger endpoints
type StockMovementHandler struct {
	BaseHandler
	movements *stockapp.MovementService
	queries   *stockapp.QueryService
}

// NewStockMovementHandler creates a StockMovementHandler
func NewStockMovementHandler(movements *stockapp.MovementService, queries *stockapp.QueryService) *StockMovementHandler {
	return &StockMovementHandler{
		movements: movements,
		queries:   queries,
	}
}

// RegisterRoutes registers movement routes on a project-scoped group
func (h *StockMovementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	movements := rg.Group("/stock/movements")
	{
		movements.GET("", h.List)
		movements.GET("/:id", h.Get)
		movements.POST("", h.Requires("stock:write"), h.Process)
	}
}

// MovementLineRequest is one item line of a bulk movement request
type MovementLineRequest struct {
	ItemCode string `json:"item_code" binding:"required,max=100"`
	ItemName string `json:"item_name" binding:"omitempty,max=255"`
	UOM      string `json:"uom" binding:"omitempty,max=20"`
	Quantity string `json:"quantity" binding:"required,decimal_positive"`
	UnitCost string `json:"unit_cost" binding:"omitempty,decimal_nonneg"`
}

// ProcessMovementRequest is the request body for a bulk stock movement
type ProcessMovementRequest struct {
	MovementType    string                `json:"movement_type" binding:"required,oneof=GRN ISSUE TRANSFER RETURN ADJUSTMENT"`
	ReferenceNumber string                `json:"reference_number" binding:"required,max=100"`
	FromLocation    string                `json:"from_location" binding:"omitempty,max=255"`
	ToLocation      string                `json:"to_location" binding:"omitempty,max=255"`
	Notes           string                `json:"notes" binding:"omitempty,max=1000"`
	Items           []MovementLineRequest `json:"items" binding:"required,min=1,dive"`
}

// List returns a page of the movement ledger
func (h *StockMovementHandler) List(c *gin.Context) {
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

	result, err := h.queries.ListMovements(c.Request.Context(), stockapp.ListMovementsInput{
		ProjectID:    projectID,
		Page:         req.Page,
		PageSize:     req.PageSize,
		OrderBy:      req.OrderBy,
		OrderDir:     req.OrderDir,
		MovementType: c.Query("movement_type"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get returns one movement with its item lines
func (h *StockMovementHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid movement ID")
		return
	}

	movement, err := h.queries.GetMovement(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movement)
}

// Process applies a multi-line stock movement atomically
func (h *StockMovementHandler) Process(c *gin.Context) {
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

	var req ProcessMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	lines := make([]stockapp.BulkMovementLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, stockapp.BulkMovementLine{
			ItemCode: item.ItemCode,
			ItemName: item.ItemName,
			UOM:      item.UOM,
			Quantity: parseDecimal(item.Quantity),
			UnitCost: parseDecimal(item.UnitCost),
		})
	}

	movement, err := h.movements.ProcessBulkMovement(c.Request.Context(), stockapp.BulkMovementInput{
		ProjectID:       projectID,
		MovementType:    stock.MovementType(req.MovementType),
		ReferenceNumber: req.ReferenceNumber,
		FromLocation:    req.FromLocation,
		ToLocation:      req.ToLocation,
		Lines:           lines,
		Notes:           req.Notes,
		ActorID:         actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}
