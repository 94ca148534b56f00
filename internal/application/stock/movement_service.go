package stock

import (
	"context"
	"fmt"

	"github.com/fibreflow/procurement/internal/domain/audit"
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/fibreflow/procurement/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MovementService composes higher-level stock operations (goods receipt,
// issue, transfer, return) from position primitives. A bulk movement is
// all-or-nothing: the first failing line aborts the whole batch.
type MovementService struct {
	scope     TransactionScope
	auditRepo audit.Repository
	logger    *zap.Logger
}

// NewMovementService creates a MovementService
func NewMovementService(scope TransactionScope, auditRepo audit.Repository, logger *zap.Logger) *MovementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MovementService{
		scope:     scope,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// BulkMovementLine is one item line of a bulk movement request
type BulkMovementLine struct {
	ItemCode string
	ItemName string
	UOM      string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// BulkMovementInput carries a complete bulk movement request
type BulkMovementInput struct {
	ProjectID       uuid.UUID
	MovementType    stock.MovementType
	ReferenceNumber string
	FromLocation    string
	ToLocation      string
	Lines           []BulkMovementLine
	Notes           string
	ActorID         uuid.UUID
}

// ProcessBulkMovement applies a multi-line stock movement atomically.
// Outbound types validate every line's availability before any position
// is touched; GRN creates positions for unknown items.
func (s *MovementService) ProcessBulkMovement(ctx context.Context, in BulkMovementInput) (*MovementResponse, error) {
	if !in.MovementType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Unknown movement type: "+string(in.MovementType))
	}
	if len(in.Lines) == 0 {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Movement requires at least one item line")
	}
	for i, line := range in.Lines {
		if !line.Quantity.IsPositive() {
			return nil, shared.NewDomainError("VALIDATION_FAILED",
				fmt.Sprintf("Line %d: quantity must be positive", i+1))
		}
	}

	var response *MovementResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		duplicate, err := repos.MovementRepo().ExistsByReference(ctx, in.ProjectID, in.ReferenceNumber)
		if err != nil {
			return err
		}
		if duplicate {
			return shared.NewDomainError("DUPLICATE_ENTRY",
				"Reference number already used: "+in.ReferenceNumber)
		}

		positions, err := s.resolvePositions(ctx, repos, in)
		if err != nil {
			return err
		}

		// Validate every outbound line before applying any change
		if in.MovementType.IsOutbound() {
			for _, line := range in.Lines {
				position := positions[line.ItemCode]
				if position.AvailableQuantity.LessThan(line.Quantity) {
					shortfall := line.Quantity.Sub(position.AvailableQuantity)
					return shared.NewDomainError("INSUFFICIENT_STOCK",
						fmt.Sprintf("Insufficient stock for %s: short by %s", line.ItemCode, shortfall.String()))
				}
			}
		}

		movement, err := stock.NewMovement(in.ProjectID, in.MovementType, in.ReferenceNumber, in.ActorID)
		if err != nil {
			return err
		}
		movement.WithLocations(in.FromLocation, in.ToLocation).WithNotes(in.Notes)

		for _, line := range in.Lines {
			position := positions[line.ItemCode]
			if err := s.applyLine(position, in.MovementType, line); err != nil {
				return err
			}
			if err := repos.PositionRepo().SaveWithLock(ctx, position); err != nil {
				return err
			}
			cost := line.UnitCost
			if cost.IsZero() {
				cost = position.AverageUnitCost
			}
			movement.AddItem(position, line.Quantity, line.Quantity, cost)
		}

		if err := repos.MovementRepo().Save(ctx, movement); err != nil {
			return err
		}
		response = ToMovementResponse(movement)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.writeAudit(ctx, in, response)
	return response, nil
}

// resolvePositions loads the position for every line. Goods receipts
// create positions for items not yet in the ledger.
func (s *MovementService) resolvePositions(ctx context.Context, repos TransactionalRepositories, in BulkMovementInput) (map[string]*stock.Position, error) {
	positions := make(map[string]*stock.Position, len(in.Lines))
	for _, line := range in.Lines {
		if _, ok := positions[line.ItemCode]; ok {
			return nil, shared.NewDomainError("VALIDATION_FAILED",
				"Duplicate item line: "+line.ItemCode)
		}
		position, err := repos.PositionRepo().FindByItemCode(ctx, in.ProjectID, line.ItemCode)
		if err == shared.ErrNotFound && in.MovementType == stock.MovementGRN {
			itemName := line.ItemName
			if itemName == "" {
				itemName = line.ItemCode
			}
			position, err = stock.NewPosition(in.ProjectID, line.ItemCode, itemName, line.UOM,
				decimal.Zero, decimal.Zero, decimal.Zero)
			if err != nil {
				return nil, err
			}
			if err := repos.PositionRepo().Save(ctx, position); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}
		positions[line.ItemCode] = position
	}
	return positions, nil
}

// applyLine performs the quantity change a movement type implies.
// Transfers relocate stock without changing project-level totals.
func (s *MovementService) applyLine(position *stock.Position, movementType stock.MovementType, line BulkMovementLine) error {
	switch movementType {
	case stock.MovementGRN, stock.MovementReturn, stock.MovementAdjustment:
		// A costless inbound line must not dilute the weighted average
		cost := line.UnitCost
		if cost.IsZero() {
			cost = position.AverageUnitCost
		}
		return position.Increase(line.Quantity, cost)
	case stock.MovementIssue:
		return position.Decrease(line.Quantity)
	case stock.MovementTransfer:
		return nil
	default:
		return shared.NewDomainError("VALIDATION_FAILED", "Unknown movement type: "+string(movementType))
	}
}

func (s *MovementService) writeAudit(ctx context.Context, in BulkMovementInput, response *MovementResponse) {
	if s.auditRepo == nil || response == nil {
		return
	}
	movementID, _ := uuid.Parse(response.ID)
	record := audit.NewRecord(in.ActorID, in.ProjectID, movementID, "stock.movement.process", "stock_movement", nil, response).
		WithMetadata(map[string]any{
			"movement_type": string(in.MovementType),
			"reference":     in.ReferenceNumber,
			"lines":         len(in.Lines),
		})
	if err := s.auditRepo.Save(ctx, record); err != nil {
		s.logger.Error("Failed to write audit record",
			zap.String("reference", in.ReferenceNumber),
			zap.Error(err))
	}
}
