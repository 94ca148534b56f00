package stock

import (
	"context"

	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/fibreflow/procurement/internal/domain/stock"
	"github.com/google/uuid"
)

// Query page-size limits. Movement history is read for reconciliation
// exports and allows a much larger page.
const (
	defaultPageSize     = 20
	maxPositionPageSize = 100
	maxMovementPageSize = 1000
)

// QueryService serves read-only views over positions and movements
type QueryService struct {
	positionRepo stock.PositionRepository
	movementRepo stock.MovementRepository
}

// NewQueryService creates a QueryService
func NewQueryService(positionRepo stock.PositionRepository, movementRepo stock.MovementRepository) *QueryService {
	return &QueryService{
		positionRepo: positionRepo,
		movementRepo: movementRepo,
	}
}

// ListPositionsInput carries filters for the position list
type ListPositionsInput struct {
	ProjectID uuid.UUID
	Page      int
	PageSize  int
	OrderBy   string
	OrderDir  string
	Search    string
	Status    string
	ActiveOnly bool
}

// ListPositions returns a filtered, paginated page of stock positions
func (s *QueryService) ListPositions(ctx context.Context, in ListPositionsInput) (*shared.Paginated[PositionResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = in.Page
	filter.PageSize = in.PageSize
	filter.Clamp(defaultPageSize, maxPositionPageSize)
	if in.OrderBy != "" {
		filter.OrderBy = in.OrderBy
	}
	if in.OrderDir != "" {
		filter.OrderDir = in.OrderDir
	}
	filter.Search = in.Search
	if in.Status != "" {
		filter.Filters["stock_status"] = in.Status
	}
	if in.ActiveOnly {
		filter.Filters["is_active"] = true
	}

	positions, err := s.positionRepo.FindAllForProject(ctx, in.ProjectID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.positionRepo.CountForProject(ctx, in.ProjectID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]PositionResponse, 0, len(positions))
	for i := range positions {
		items = append(items, *ToPositionResponse(&positions[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetPosition returns one position by item code
func (s *QueryService) GetPosition(ctx context.Context, projectID uuid.UUID, itemCode string) (*PositionResponse, error) {
	position, err := s.positionRepo.FindByItemCode(ctx, projectID, itemCode)
	if err != nil {
		return nil, err
	}
	return ToPositionResponse(position), nil
}

// GetSummary aggregates ledger totals for a project
func (s *QueryService) GetSummary(ctx context.Context, projectID uuid.UUID) (*PositionSummaryResponse, error) {
	totalValue, err := s.positionRepo.SumValueForProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	counts, err := s.positionRepo.CountByStatusForProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(counts))
	for status, count := range counts {
		byStatus[string(status)] = count
	}
	return &PositionSummaryResponse{
		TotalValue:     totalValue.String(),
		CountsByStatus: byStatus,
	}, nil
}

// ListMovementsInput carries filters for the movement history
type ListMovementsInput struct {
	ProjectID    uuid.UUID
	Page         int
	PageSize     int
	OrderBy      string
	OrderDir     string
	MovementType string
}

// ListMovements returns a page of the append-only movement ledger
func (s *QueryService) ListMovements(ctx context.Context, in ListMovementsInput) (*shared.Paginated[MovementResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = in.Page
	filter.PageSize = in.PageSize
	filter.Clamp(defaultPageSize, maxMovementPageSize)
	if in.OrderBy != "" {
		filter.OrderBy = in.OrderBy
	}
	if in.OrderDir != "" {
		filter.OrderDir = in.OrderDir
	}
	if in.MovementType != "" {
		filter.Filters["movement_type"] = in.MovementType
	}

	movements, err := s.movementRepo.FindAllForProject(ctx, in.ProjectID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.movementRepo.CountForProject(ctx, in.ProjectID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, *ToMovementResponse(&movements[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetMovement returns one movement with its item lines
func (s *QueryService) GetMovement(ctx context.Context, id uuid.UUID) (*MovementResponse, error) {
	movement, err := s.movementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(movement), nil
}
