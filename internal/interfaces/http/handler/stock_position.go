package handler

import (
	"context"

	stockapp "github.com/fibreflow/procurement/internal/application/stock"
	"github.com/fibreflow/procurement/internal/domain/stock"
	"github.com/fibreflow/procurement/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockPositionHandler serves the stock position ledger endpoints
type StockPositionHandler struct {
	BaseHandler
	commands *stockapp.CommandService
	queries  *stockapp.QueryService
}

// NewStockPositionHandler creates a StockPositionHandler
func NewStockPositionHandler(commands *stockapp.CommandService, queries *stockapp.QueryService) *StockPositionHandler {
	return &StockPositionHandler{
		commands: commands,
		queries:  queries,
	}
}

// RegisterRoutes registers position routes on a project-scoped group
func (h *StockPositionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	positions := rg.Group("/stock/positions")
	{
		positions.GET("", h.List)
		positions.GET("/summary", h.Summary)
		positions.GET("/:itemCode", h.Get)
		positions.POST("", h.Requires("stock:write"), h.Create)
		positions.POST("/:itemCode/adjust", h.Requires("stock:write"), h.Adjust)
		positions.POST("/:itemCode/reserve", h.Requires("stock:write"), h.Reserve)
		positions.POST("/:itemCode/release", h.Requires("stock:write"), h.Release)
		positions.PUT("/:itemCode/reorder-level", h.Requires("stock:write"), h.SetReorderLevel)
		positions.DELETE("/:itemCode", h.Requires("stock:delete"), h.Delete)
	}
}

// CreatePositionRequest is the request body for position creation
type CreatePositionRequest struct {
	ItemCode      string `json:"item_code" binding:"required,max=100"`
	ItemName      string `json:"item_name" binding:"required,max=255"`
	UOM           string `json:"uom" binding:"required,max=20"`
	InitialOnHand string `json:"initial_on_hand" binding:"omitempty,decimal_nonneg"`
	InitialCost   string `json:"initial_cost" binding:"omitempty,decimal_nonneg"`
	ReorderLevel  string `json:"reorder_level" binding:"omitempty,decimal_nonneg"`
}

// AdjustLevelRequest is the request body for a stock level adjustment
type AdjustLevelRequest struct {
	Quantity        string `json:"quantity" binding:"required,decimal_positive"`
	Direction       string `json:"direction" binding:"required,oneof=increase decrease"`
	UnitCost        string `json:"unit_cost" binding:"omitempty,decimal_nonneg"`
	Reason          string `json:"reason" binding:"required,max=500"`
	ReferenceNumber string `json:"reference_number" binding:"required,max=100"`
}

// QuantityRequest is the request body for reserve and release
type QuantityRequest struct {
	Quantity string `json:"quantity" binding:"required,decimal_positive"`
}

// ReorderLevelRequest is the request body for the reorder threshold
type ReorderLevelRequest struct {
	ReorderLevel string `json:"reorder_level" binding:"required,decimal_nonneg"`
}

// List returns a filtered page of stock positions
func (h *StockPositionHandler) List(c *gin.Context) {
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

	result, err := h.queries.ListPositions(c.Request.Context(), stockapp.ListPositionsInput{
		ProjectID:  projectID,
		Page:       req.Page,
		PageSize:   req.PageSize,
		OrderBy:    req.OrderBy,
		OrderDir:   req.OrderDir,
		Search:     req.Search,
		Status:     c.Query("status"),
		ActiveOnly: c.Query("active_only") == "true",
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Summary returns aggregate ledger totals for the project
func (h *StockPositionHandler) Summary(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	summary, err := h.queries.GetSummary(c.Request.Context(), projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Get returns one position by item code
func (h *StockPositionHandler) Get(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	position, err := h.queries.GetPosition(c.Request.Context(), projectID, c.Param("itemCode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, position)
}

// Create registers a new stock position
func (h *StockPositionHandler) Create(c *gin.Context) {
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

	var req CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	position, err := h.commands.CreatePosition(c.Request.Context(), stockapp.CreatePositionInput{
		ProjectID:     projectID,
		ItemCode:      req.ItemCode,
		ItemName:      req.ItemName,
		UOM:           req.UOM,
		InitialOnHand: parseDecimal(req.InitialOnHand),
		InitialCost:   parseDecimal(req.InitialCost),
		ReorderLevel:  parseDecimal(req.ReorderLevel),
		ActorID:       actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, position)
}

// Adjust changes on-hand stock with an audit trail entry
func (h *StockPositionHandler) Adjust(c *gin.Context) {
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

	var req AdjustLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	position, err := h.commands.AdjustLevel(c.Request.Context(), stockapp.AdjustLevelInput{
		ProjectID:       projectID,
		ItemCode:        c.Param("itemCode"),
		Quantity:        parseDecimal(req.Quantity),
		Direction:       stock.AdjustmentDirection(req.Direction),
		UnitCost:        parseDecimal(req.UnitCost),
		Reason:          req.Reason,
		ReferenceNumber: req.ReferenceNumber,
		ActorID:         actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, position)
}

// Reserve earmarks available stock
func (h *StockPositionHandler) Reserve(c *gin.Context) {
	h.mutateQuantity(c, h.commands.Reserve)
}

// Release returns reserved stock to the available pool
func (h *StockPositionHandler) Release(c *gin.Context) {
	h.mutateQuantity(c, h.commands.Release)
}

// SetReorderLevel updates the reorder threshold
func (h *StockPositionHandler) SetReorderLevel(c *gin.Context) {
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

	var req ReorderLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	position, err := h.commands.SetReorderLevel(c.Request.Context(), projectID,
		c.Param("itemCode"), parseDecimal(req.ReorderLevel), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, position)
}

// Delete soft-deletes a position with no outstanding reservations
func (h *StockPositionHandler) Delete(c *gin.Context) {
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

	if err := h.commands.DeletePosition(c.Request.Context(), projectID, c.Param("itemCode"), actorID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type quantityMutation func(ctx context.Context, projectID uuid.UUID, itemCode string, quantity decimal.Decimal, actorID uuid.UUID) (*stockapp.PositionResponse, error)

func (h *StockPositionHandler) mutateQuantity(c *gin.Context, mutate quantityMutation) {
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

	var req QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	position, err := mutate(c.Request.Context(), projectID, c.Param("itemCode"), parseDecimal(req.Quantity), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, position)
}

// parseDecimal converts a validated decimal string, empty means zero
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
