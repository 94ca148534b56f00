package stock

import (
	"context"

	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PositionRepository defines the interface for stock position persistence
type PositionRepository interface {
	// FindByID finds a position by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Position, error)

	// FindByIDForProject finds a position by ID within a project
	FindByIDForProject(ctx context.Context, projectID, id uuid.UUID) (*Position, error)

	// FindByItemCode finds the active position for a project item
	FindByItemCode(ctx context.Context, projectID uuid.UUID, itemCode string) (*Position, error)

	// FindAllForProject finds all positions for a project
	FindAllForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]Position, error)

	// CountForProject counts positions matching the filter
	CountForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByItemCode checks whether any position (active or not) exists
	// for the project-item combination
	ExistsByItemCode(ctx context.Context, projectID uuid.UUID, itemCode string) (bool, error)

	// Save creates or updates a position
	Save(ctx context.Context, position *Position) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, position *Position) error

	// SumValueForProject sums total stock value across active positions
	SumValueForProject(ctx context.Context, projectID uuid.UUID) (decimal.Decimal, error)

	// CountByStatusForProject counts active positions per stock status
	CountByStatusForProject(ctx context.Context, projectID uuid.UUID) (map[Status]int64, error)
}

// MovementRepository defines the interface for the append-only movement ledger
type MovementRepository interface {
	// FindByID finds a movement with its item lines
	FindByID(ctx context.Context, id uuid.UUID) (*Movement, error)

	// FindAllForProject lists movements for a project
	FindAllForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]Movement, error)

	// CountForProject counts movements matching the filter
	CountForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByReference checks whether a reference number was already used
	// within the project
	ExistsByReference(ctx context.Context, projectID uuid.UUID, referenceNumber string) (bool, error)

	// Save inserts a movement together with its item lines
	Save(ctx context.Context, movement *Movement) error

	// FindItemsByPosition lists movement lines that touched a position
	FindItemsByPosition(ctx context.Context, positionID uuid.UUID, filter shared.Filter) ([]MovementItem, error)
}

// CableDrumRepository defines the interface for cable drum persistence
type CableDrumRepository interface {
	// FindByID finds a drum by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CableDrum, error)

	// FindByDrumNumber finds a drum by number within a project
	FindByDrumNumber(ctx context.Context, projectID uuid.UUID, drumNumber string) (*CableDrum, error)

	// FindAllForProject lists drums for a project
	FindAllForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]CableDrum, error)

	// CountForProject counts drums matching the filter
	CountForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByDrumNumber checks drum number uniqueness within a project
	ExistsByDrumNumber(ctx context.Context, projectID uuid.UUID, drumNumber string) (bool, error)

	// Save creates or updates a drum
	Save(ctx context.Context, drum *CableDrum) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, drum *CableDrum) error

	// SaveUsage appends a usage history row
	SaveUsage(ctx context.Context, usage *DrumUsage) error

	// FindUsageByDrum lists usage history for a drum, oldest first
	FindUsageByDrum(ctx context.Context, drumID uuid.UUID, filter shared.Filter) ([]DrumUsage, error)
}
