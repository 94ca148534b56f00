package stock

import (
	"fmt"

	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status classifies a position's on-hand level against its reorder level.
type Status string

const (
	StatusNormal   Status = "normal"
	StatusLow      Status = "low"
	StatusCritical Status = "critical"
	StatusExcess   Status = "excess"
	StatusObsolete Status = "obsolete"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusNormal, StatusLow, StatusCritical, StatusExcess, StatusObsolete:
		return true
	}
	return false
}

// Position is the stock ledger aggregate. One row exists per
// (project, item code). On-hand, reserved and the derived available
// quantity are kept consistent by recomputeDerived after every mutation.
type Position struct {
	shared.ProjectAggregateRoot

	ItemCode         string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_positions_project_item,priority:2"`
	ItemName         string          `gorm:"type:varchar(255);not null"`
	UOM              string          `gorm:"type:varchar(16);not null"`
	OnHandQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	// AvailableQuantity is always OnHandQuantity - ReservedQuantity
	AvailableQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AverageUnitCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalValue        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderLevel      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StockStatus       Status          `gorm:"type:varchar(16);not null;default:'normal'"`
	IsActive          bool            `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Position) TableName() string {
	return "stock_positions"
}

// NewPosition creates a stock position for a project item. The initial
// on-hand quantity is fully available.
func NewPosition(projectID uuid.UUID, itemCode, itemName, uom string, initialOnHand, initialCost, reorderLevel decimal.Decimal) (*Position, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Project ID is required")
	}
	if itemCode == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Item code is required")
	}
	if itemName == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Item name is required")
	}
	if uom == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Unit of measure is required")
	}
	if initialOnHand.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Initial on-hand quantity cannot be negative")
	}
	if initialCost.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Initial unit cost cannot be negative")
	}

	p := &Position{
		ProjectAggregateRoot: shared.NewProjectAggregateRoot(projectID),
		ItemCode:             itemCode,
		ItemName:             itemName,
		UOM:                  uom,
		OnHandQuantity:       initialOnHand,
		ReservedQuantity:     decimal.Zero,
		AverageUnitCost:      initialCost,
		ReorderLevel:         reorderLevel,
		IsActive:             true,
	}
	p.recomputeDerived()

	p.AddDomainEvent(NewPositionCreatedEvent(p))
	return p, nil
}

// recomputeDerived recalculates available quantity, total value and the
// stock status classification. Every mutator must call this before
// returning so the ledger invariant cannot be skipped at a call site.
func (p *Position) recomputeDerived() {
	p.AvailableQuantity = p.OnHandQuantity.Sub(p.ReservedQuantity)
	p.TotalValue = p.OnHandQuantity.Mul(p.AverageUnitCost)
	if p.StockStatus != StatusObsolete {
		p.StockStatus = classifyStatus(p.OnHandQuantity, p.ReorderLevel)
	}
}

// classifyStatus derives the stock status from on-hand vs reorder level
func classifyStatus(onHand, reorder decimal.Decimal) Status {
	switch {
	case onHand.IsZero():
		return StatusCritical
	case onHand.LessThanOrEqual(reorder.Mul(decimal.NewFromFloat(0.5))):
		return StatusCritical
	case onHand.LessThanOrEqual(reorder):
		return StatusLow
	case reorder.IsPositive() && onHand.GreaterThan(reorder.Mul(decimal.NewFromInt(3))):
		return StatusExcess
	default:
		return StatusNormal
	}
}

// Increase adds quantity at the supplied unit cost and recalculates the
// quantity-weighted average cost.
func (p *Position) Increase(quantity, unitCost decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("VALIDATION_FAILED", "Increase quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("VALIDATION_FAILED", "Unit cost cannot be negative")
	}

	newOnHand := p.OnHandQuantity.Add(quantity)
	currentValue := p.OnHandQuantity.Mul(p.AverageUnitCost)
	addedValue := quantity.Mul(unitCost)
	p.AverageUnitCost = currentValue.Add(addedValue).Div(newOnHand)
	p.OnHandQuantity = newOnHand

	p.recomputeDerived()
	p.IncrementVersion()
	p.AddDomainEvent(NewLevelAdjustedEvent(p, AdjustmentIncrease, quantity))
	return nil
}

// Decrease removes quantity from on-hand stock. The on-hand quantity may
// never drop below what is currently reserved.
func (p *Position) Decrease(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("VALIDATION_FAILED", "Decrease quantity must be positive")
	}
	newOnHand := p.OnHandQuantity.Sub(quantity)
	if newOnHand.LessThan(p.ReservedQuantity) {
		shortfall := p.OnHandQuantity.Sub(p.ReservedQuantity)
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Cannot reduce %s below reserved quantity: only %s available for decrease", p.ItemCode, shortfall.String()))
	}
	p.OnHandQuantity = newOnHand

	p.recomputeDerived()
	p.IncrementVersion()
	p.AddDomainEvent(NewLevelAdjustedEvent(p, AdjustmentDecrease, quantity))
	return nil
}

// Reserve earmarks quantity from the available pool
func (p *Position) Reserve(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("VALIDATION_FAILED", "Reserve quantity must be positive")
	}
	if p.AvailableQuantity.LessThan(quantity) {
		shortfall := quantity.Sub(p.AvailableQuantity)
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient available stock for %s: short by %s", p.ItemCode, shortfall.String()))
	}
	p.ReservedQuantity = p.ReservedQuantity.Add(quantity)

	p.recomputeDerived()
	p.IncrementVersion()
	p.AddDomainEvent(NewStockReservedEvent(p, quantity))
	return nil
}

// Release returns previously reserved quantity to the available pool
func (p *Position) Release(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("VALIDATION_FAILED", "Release quantity must be positive")
	}
	if p.ReservedQuantity.LessThan(quantity) {
		return shared.NewDomainError("RESERVATION_ERROR",
			fmt.Sprintf("Cannot release %s of %s: only %s reserved", quantity.String(), p.ItemCode, p.ReservedQuantity.String()))
	}
	p.ReservedQuantity = p.ReservedQuantity.Sub(quantity)

	p.recomputeDerived()
	p.IncrementVersion()
	p.AddDomainEvent(NewStockReleasedEvent(p, quantity))
	return nil
}

// Deactivate soft-deletes the position. Positions with outstanding
// reservations cannot be deactivated.
func (p *Position) Deactivate() error {
	if p.ReservedQuantity.IsPositive() {
		return shared.NewDomainError("VALIDATION_FAILED",
			fmt.Sprintf("Cannot delete position %s with %s reserved", p.ItemCode, p.ReservedQuantity.String()))
	}
	p.IsActive = false
	p.IncrementVersion()
	p.AddDomainEvent(NewPositionDeactivatedEvent(p))
	return nil
}

// MarkObsolete flags the item as obsolete. The flag is sticky: later
// quantity changes no longer reclassify the status.
func (p *Position) MarkObsolete() {
	p.StockStatus = StatusObsolete
	p.IncrementVersion()
}

// SetReorderLevel updates the reorder threshold and reclassifies
func (p *Position) SetReorderLevel(level decimal.Decimal) error {
	if level.IsNegative() {
		return shared.NewDomainError("VALIDATION_FAILED", "Reorder level cannot be negative")
	}
	p.ReorderLevel = level
	p.recomputeDerived()
	p.IncrementVersion()
	return nil
}
