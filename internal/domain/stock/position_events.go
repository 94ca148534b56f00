package stock

import (
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the stock context
const (
	EventTypePositionCreated     = "stock.position.created"
	EventTypeLevelAdjusted       = "stock.position.level_adjusted"
	EventTypeStockReserved       = "stock.position.reserved"
	EventTypeStockReleased       = "stock.position.released"
	EventTypePositionDeactivated = "stock.position.deactivated"
	EventTypeDrumUsageRecorded   = "stock.drum.usage_recorded"
)

const aggregateTypePosition = "StockPosition"

// AdjustmentDirection indicates whether an adjustment adds or removes stock
type AdjustmentDirection string

const (
	AdjustmentIncrease AdjustmentDirection = "increase"
	AdjustmentDecrease AdjustmentDirection = "decrease"
)

// IsValid checks if the direction is a known value
func (d AdjustmentDirection) IsValid() bool {
	return d == AdjustmentIncrease || d == AdjustmentDecrease
}

// PositionCreatedEvent is emitted when a stock position is created
type PositionCreatedEvent struct {
	shared.BaseDomainEvent
	ItemCode string          `json:"item_code"`
	OnHand   decimal.Decimal `json:"on_hand"`
}

// NewPositionCreatedEvent creates a PositionCreatedEvent
func NewPositionCreatedEvent(p *Position) *PositionCreatedEvent {
	return &PositionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePositionCreated, aggregateTypePosition, p.ID, p.ProjectID),
		ItemCode:        p.ItemCode,
		OnHand:          p.OnHandQuantity,
	}
}

// LevelAdjustedEvent is emitted when on-hand stock changes
type LevelAdjustedEvent struct {
	shared.BaseDomainEvent
	ItemCode  string              `json:"item_code"`
	Direction AdjustmentDirection `json:"direction"`
	Quantity  decimal.Decimal     `json:"quantity"`
	OnHand    decimal.Decimal     `json:"on_hand"`
	Status    Status              `json:"status"`
}

// NewLevelAdjustedEvent creates a LevelAdjustedEvent
func NewLevelAdjustedEvent(p *Position, direction AdjustmentDirection, quantity decimal.Decimal) *LevelAdjustedEvent {
	return &LevelAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLevelAdjusted, aggregateTypePosition, p.ID, p.ProjectID),
		ItemCode:        p.ItemCode,
		Direction:       direction,
		Quantity:        quantity,
		OnHand:          p.OnHandQuantity,
		Status:          p.StockStatus,
	}
}

// StockReservedEvent is emitted when stock is reserved
type StockReservedEvent struct {
	shared.BaseDomainEvent
	ItemCode  string          `json:"item_code"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reserved  decimal.Decimal `json:"reserved"`
	Available decimal.Decimal `json:"available"`
}

// NewStockReservedEvent creates a StockReservedEvent
func NewStockReservedEvent(p *Position, quantity decimal.Decimal) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReserved, aggregateTypePosition, p.ID, p.ProjectID),
		ItemCode:        p.ItemCode,
		Quantity:        quantity,
		Reserved:        p.ReservedQuantity,
		Available:       p.AvailableQuantity,
	}
}

// StockReleasedEvent is emitted when a reservation is released
type StockReleasedEvent struct {
	shared.BaseDomainEvent
	ItemCode  string          `json:"item_code"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reserved  decimal.Decimal `json:"reserved"`
	Available decimal.Decimal `json:"available"`
}

// NewStockReleasedEvent creates a StockReleasedEvent
func NewStockReleasedEvent(p *Position, quantity decimal.Decimal) *StockReleasedEvent {
	return &StockReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReleased, aggregateTypePosition, p.ID, p.ProjectID),
		ItemCode:        p.ItemCode,
		Quantity:        quantity,
		Reserved:        p.ReservedQuantity,
		Available:       p.AvailableQuantity,
	}
}

// PositionDeactivatedEvent is emitted when a position is soft-deleted
type PositionDeactivatedEvent struct {
	shared.BaseDomainEvent
	ItemCode string `json:"item_code"`
}

// NewPositionDeactivatedEvent creates a PositionDeactivatedEvent
func NewPositionDeactivatedEvent(p *Position) *PositionDeactivatedEvent {
	return &PositionDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePositionDeactivated, aggregateTypePosition, p.ID, p.ProjectID),
		ItemCode:        p.ItemCode,
	}
}
