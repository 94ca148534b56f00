package stock

import (
	"time"

	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies a logical inventory transaction
type MovementType string

const (
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementGRN        MovementType = "GRN"
	MovementIssue      MovementType = "ISSUE"
	MovementTransfer   MovementType = "TRANSFER"
	MovementReturn     MovementType = "RETURN"
)

// IsValid checks if the movement type is a known value
func (t MovementType) IsValid() bool {
	switch t {
	case MovementAdjustment, MovementGRN, MovementIssue, MovementTransfer, MovementReturn:
		return true
	}
	return false
}

// IsInbound returns true for movement types that add stock
func (t MovementType) IsInbound() bool {
	return t == MovementGRN || t == MovementReturn
}

// IsOutbound returns true for movement types that remove stock
func (t MovementType) IsOutbound() bool {
	return t == MovementIssue || t == MovementTransfer
}

// MovementStatus is the lifecycle state of a movement record
type MovementStatus string

const (
	MovementCompleted MovementStatus = "completed"
)

// Movement is one row per logical inventory transaction. Movements form
// an append-only ledger: once created they are never updated.
type Movement struct {
	shared.BaseEntity

	ProjectID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_movements_project_ref,priority:1"`
	MovementType    MovementType    `gorm:"type:varchar(16);not null;index"`
	ReferenceNumber string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_movements_project_ref,priority:2"`
	FromLocation    string          `gorm:"type:varchar(128)"`
	ToLocation      string          `gorm:"type:varchar(128)"`
	Status          MovementStatus  `gorm:"type:varchar(16);not null;default:'completed'"`
	MovementDate    time.Time       `gorm:"not null;index"`
	PerformedBy     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Notes           string          `gorm:"type:text"`
	Items           []MovementItem  `gorm:"foreignKey:MovementID;constraint:OnDelete:CASCADE"`
	TotalValue      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the database table name
func (Movement) TableName() string {
	return "stock_movements"
}

// MovementItem is one item line within a movement, linked to the stock
// position it affected. Created atomically with its parent movement.
type MovementItem struct {
	shared.BaseEntity

	MovementID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	PositionID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode        string          `gorm:"type:varchar(64);not null"`
	PlannedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ActualQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LineValue       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the database table name
func (MovementItem) TableName() string {
	return "stock_movement_items"
}

// NewMovement creates an immutable movement header
func NewMovement(projectID uuid.UUID, movementType MovementType, referenceNumber string, performedBy uuid.UUID) (*Movement, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Project ID is required")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Unknown movement type: "+string(movementType))
	}
	if referenceNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Reference number is required")
	}
	if performedBy == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Performing user is required")
	}

	return &Movement{
		BaseEntity:      shared.NewBaseEntity(),
		ProjectID:       projectID,
		MovementType:    movementType,
		ReferenceNumber: referenceNumber,
		Status:          MovementCompleted,
		MovementDate:    time.Now(),
		PerformedBy:     performedBy,
		TotalValue:      decimal.Zero,
	}, nil
}

// WithLocations sets the from/to locations (fluent)
func (m *Movement) WithLocations(from, to string) *Movement {
	m.FromLocation = from
	m.ToLocation = to
	return m
}

// WithNotes attaches free-form notes (fluent)
func (m *Movement) WithNotes(notes string) *Movement {
	m.Notes = notes
	return m
}

// AddItem appends an item line and accumulates the movement total value
func (m *Movement) AddItem(position *Position, planned, actual, unitCost decimal.Decimal) *MovementItem {
	item := MovementItem{
		BaseEntity:      shared.NewBaseEntity(),
		MovementID:      m.ID,
		PositionID:      position.ID,
		ItemCode:        position.ItemCode,
		PlannedQuantity: planned,
		ActualQuantity:  actual,
		UnitCost:        unitCost,
		LineValue:       actual.Mul(unitCost),
	}
	m.Items = append(m.Items, item)
	m.TotalValue = m.TotalValue.Add(item.LineValue)
	return &m.Items[len(m.Items)-1]
}
