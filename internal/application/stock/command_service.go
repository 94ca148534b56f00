package stock

import (
	"context"

	"github.com/fibreflow/procurement/internal/domain/audit"
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/fibreflow/procurement/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CommandService owns all stock position mutations. Adjustments write
// the position snapshot and the ADJUSTMENT ledger entry in one
// transaction; reservation changes go through optimistic locking.
type CommandService struct {
	positionRepo stock.PositionRepository
	scope        TransactionScope
	auditRepo    audit.Repository
	logger       *zap.Logger
}

// NewCommandService creates a CommandService
func NewCommandService(positionRepo stock.PositionRepository, scope TransactionScope, auditRepo audit.Repository, logger *zap.Logger) *CommandService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandService{
		positionRepo: positionRepo,
		scope:        scope,
		auditRepo:    auditRepo,
		logger:       logger,
	}
}

// CreatePositionInput carries the fields for position creation
type CreatePositionInput struct {
	ProjectID     uuid.UUID
	ItemCode      string
	ItemName      string
	UOM           string
	InitialOnHand decimal.Decimal
	InitialCost   decimal.Decimal
	ReorderLevel  decimal.Decimal
	ActorID       uuid.UUID
}

// CreatePosition registers a new stock position for a project item
func (s *CommandService) CreatePosition(ctx context.Context, in CreatePositionInput) (*PositionResponse, error) {
	exists, err := s.positionRepo.ExistsByItemCode(ctx, in.ProjectID, in.ItemCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_ENTRY",
			"Stock position already exists for item "+in.ItemCode)
	}

	position, err := stock.NewPosition(in.ProjectID, in.ItemCode, in.ItemName, in.UOM,
		in.InitialOnHand, in.InitialCost, in.ReorderLevel)
	if err != nil {
		return nil, err
	}
	if in.ActorID != uuid.Nil {
		position.SetCreatedBy(in.ActorID)
	}

	if err := s.positionRepo.Save(ctx, position); err != nil {
		return nil, err
	}

	s.writeAudit(ctx, in.ActorID, position, "stock.position.create", nil, snapshotPosition(position))
	return ToPositionResponse(position), nil
}

// AdjustLevelInput carries the fields for a stock level adjustment
type AdjustLevelInput struct {
	ProjectID       uuid.UUID
	ItemCode        string
	Quantity        decimal.Decimal
	Direction       stock.AdjustmentDirection
	UnitCost        decimal.Decimal
	Reason          string
	ReferenceNumber string
	ActorID         uuid.UUID
}

// AdjustLevel changes on-hand stock and appends the matching ADJUSTMENT
// movement. Position update and ledger entry commit atomically.
func (s *CommandService) AdjustLevel(ctx context.Context, in AdjustLevelInput) (*PositionResponse, error) {
	if !in.Direction.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Adjustment direction must be increase or decrease")
	}
	if in.Reason == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Adjustment reason is required")
	}

	var response *PositionResponse
	var before positionSnapshot
	var position *stock.Position

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		position, err = repos.PositionRepo().FindByItemCode(ctx, in.ProjectID, in.ItemCode)
		if err != nil {
			return err
		}
		before = snapshotPosition(position)

		duplicate, err := repos.MovementRepo().ExistsByReference(ctx, in.ProjectID, in.ReferenceNumber)
		if err != nil {
			return err
		}
		if duplicate {
			return shared.NewDomainError("DUPLICATE_ENTRY",
				"Reference number already used: "+in.ReferenceNumber)
		}

		if in.Direction == stock.AdjustmentIncrease {
			err = position.Increase(in.Quantity, in.UnitCost)
		} else {
			err = position.Decrease(in.Quantity)
		}
		if err != nil {
			return err
		}

		if err := repos.PositionRepo().SaveWithLock(ctx, position); err != nil {
			return err
		}

		movement, err := stock.NewMovement(in.ProjectID, stock.MovementAdjustment, in.ReferenceNumber, in.ActorID)
		if err != nil {
			return err
		}
		movement.WithNotes(in.Reason)
		movement.AddItem(position, in.Quantity, in.Quantity, in.UnitCost)
		if err := repos.MovementRepo().Save(ctx, movement); err != nil {
			return err
		}

		response = ToPositionResponse(position)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.writeAudit(ctx, in.ActorID, position, "stock.position.adjust", before, snapshotPosition(position))
	return response, nil
}

// Reserve earmarks available stock for future issue
func (s *CommandService) Reserve(ctx context.Context, projectID uuid.UUID, itemCode string, quantity decimal.Decimal, actorID uuid.UUID) (*PositionResponse, error) {
	return s.mutatePosition(ctx, projectID, itemCode, actorID, "stock.position.reserve",
		func(p *stock.Position) error { return p.Reserve(quantity) })
}

// Release returns reserved stock to the available pool
func (s *CommandService) Release(ctx context.Context, projectID uuid.UUID, itemCode string, quantity decimal.Decimal, actorID uuid.UUID) (*PositionResponse, error) {
	return s.mutatePosition(ctx, projectID, itemCode, actorID, "stock.position.release",
		func(p *stock.Position) error { return p.Release(quantity) })
}

// DeletePosition soft-deletes a position with no outstanding reservations
func (s *CommandService) DeletePosition(ctx context.Context, projectID uuid.UUID, itemCode string, actorID uuid.UUID) error {
	_, err := s.mutatePosition(ctx, projectID, itemCode, actorID, "stock.position.delete",
		func(p *stock.Position) error { return p.Deactivate() })
	return err
}

// SetReorderLevel updates the reorder threshold for a position
func (s *CommandService) SetReorderLevel(ctx context.Context, projectID uuid.UUID, itemCode string, level decimal.Decimal, actorID uuid.UUID) (*PositionResponse, error) {
	return s.mutatePosition(ctx, projectID, itemCode, actorID, "stock.position.set_reorder_level",
		func(p *stock.Position) error { return p.SetReorderLevel(level) })
}

// mutatePosition loads the active position, applies the mutation and
// saves under the optimistic version check
func (s *CommandService) mutatePosition(ctx context.Context, projectID uuid.UUID, itemCode string, actorID uuid.UUID, action string, mutate func(*stock.Position) error) (*PositionResponse, error) {
	position, err := s.positionRepo.FindByItemCode(ctx, projectID, itemCode)
	if err != nil {
		return nil, err
	}
	before := snapshotPosition(position)

	if err := mutate(position); err != nil {
		return nil, err
	}
	if err := s.positionRepo.SaveWithLock(ctx, position); err != nil {
		return nil, err
	}

	s.writeAudit(ctx, actorID, position, action, before, snapshotPosition(position))
	return ToPositionResponse(position), nil
}

// writeAudit appends an audit record. Audit failures are logged and
// never fail the audited operation.
func (s *CommandService) writeAudit(ctx context.Context, actorID uuid.UUID, position *stock.Position, action string, before, after any) {
	if s.auditRepo == nil {
		return
	}
	record := audit.NewRecord(actorID, position.ProjectID, position.ID, action, "stock_position", before, after)
	if err := s.auditRepo.Save(ctx, record); err != nil {
		s.logger.Error("Failed to write audit record",
			zap.String("action", action),
			zap.String("position_id", position.ID.String()),
			zap.Error(err))
	}
}
