package stock

import (
	"context"
	"testing"

	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/fibreflow/procurement/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestQueryService(t *testing.T) (*QueryService, *MockPositionRepository, *MockMovementRepository) {
	t.Helper()
	positionRepo := new(MockPositionRepository)
	movementRepo := new(MockMovementRepository)
	return NewQueryService(positionRepo, movementRepo), positionRepo, movementRepo
}

func TestQueryService_ListPositions(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()

	t.Run("applies defaults and status filter", func(t *testing.T) {
		svc, positionRepo, _ := newTestQueryService(t)
		matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 20 && f.Filters["stock_status"] == "low"
		})
		positionRepo.On("FindAllForProject", ctx, projectID, matchFilter).Return([]stock.Position{}, nil)
		positionRepo.On("CountForProject", ctx, projectID, matchFilter).Return(int64(0), nil)

		page, err := svc.ListPositions(ctx, ListPositionsInput{
			ProjectID: projectID,
			Status:    "low",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(0), page.Total)
		positionRepo.AssertExpectations(t)
	})

	t.Run("clamps oversized page to position limit", func(t *testing.T) {
		svc, positionRepo, _ := newTestQueryService(t)
		matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
			return f.PageSize == 100
		})
		positionRepo.On("FindAllForProject", ctx, projectID, matchFilter).Return([]stock.Position{}, nil)
		positionRepo.On("CountForProject", ctx, projectID, matchFilter).Return(int64(0), nil)

		_, err := svc.ListPositions(ctx, ListPositionsInput{
			ProjectID: projectID,
			Page:      1,
			PageSize:  5000,
		})

		require.NoError(t, err)
		positionRepo.AssertExpectations(t)
	})

	t.Run("maps positions to responses", func(t *testing.T) {
		svc, positionRepo, _ := newTestQueryService(t)
		position, err := stock.NewPosition(projectID, "CAB-001", "Fibre cable 48F", "m",
			decimal.NewFromInt(100), decimal.NewFromInt(10), decimal.NewFromInt(20))
		require.NoError(t, err)
		positionRepo.On("FindAllForProject", ctx, projectID, mock.Anything).Return([]stock.Position{*position}, nil)
		positionRepo.On("CountForProject", ctx, projectID, mock.Anything).Return(int64(1), nil)

		page, err := svc.ListPositions(ctx, ListPositionsInput{ProjectID: projectID})

		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "CAB-001", page.Items[0].ItemCode)
		assert.Equal(t, "100", page.Items[0].AvailableQuantity)
	})
}

func TestQueryService_ListMovements(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()

	t.Run("allows large reconciliation pages up to the movement limit", func(t *testing.T) {
		svc, _, movementRepo := newTestQueryService(t)
		matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
			return f.PageSize == 1000 && f.Filters["movement_type"] == "GRN"
		})
		movementRepo.On("FindAllForProject", ctx, projectID, matchFilter).Return([]stock.Movement{}, nil)
		movementRepo.On("CountForProject", ctx, projectID, matchFilter).Return(int64(0), nil)

		_, err := svc.ListMovements(ctx, ListMovementsInput{
			ProjectID:    projectID,
			Page:         1,
			PageSize:     9999,
			MovementType: "GRN",
		})

		require.NoError(t, err)
		movementRepo.AssertExpectations(t)
	})

	t.Run("zero page size falls back to default", func(t *testing.T) {
		svc, _, movementRepo := newTestQueryService(t)
		matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 20
		})
		movementRepo.On("FindAllForProject", ctx, projectID, matchFilter).Return([]stock.Movement{}, nil)
		movementRepo.On("CountForProject", ctx, projectID, matchFilter).Return(int64(0), nil)

		_, err := svc.ListMovements(ctx, ListMovementsInput{ProjectID: projectID})

		require.NoError(t, err)
	})
}

func TestQueryService_GetSummary(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	svc, positionRepo, _ := newTestQueryService(t)

	positionRepo.On("SumValueForProject", ctx, projectID).Return(decimal.NewFromInt(15000), nil)
	positionRepo.On("CountByStatusForProject", ctx, projectID).Return(map[stock.Status]int64{
		stock.StatusNormal:   12,
		stock.StatusLow:      3,
		stock.StatusCritical: 1,
	}, nil)

	summary, err := svc.GetSummary(ctx, projectID)

	require.NoError(t, err)
	assert.Equal(t, "15000", summary.TotalValue)
	assert.Equal(t, int64(3), summary.CountsByStatus["low"])
	assert.Equal(t, int64(1), summary.CountsByStatus["critical"])
}

func TestQueryService_GetPosition(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	svc, positionRepo, _ := newTestQueryService(t)

	positionRepo.On("FindByItemCode", ctx, projectID, "NOPE").Return(nil, shared.ErrNotFound)

	_, err := svc.GetPosition(ctx, projectID, "NOPE")
	assert.Equal(t, shared.ErrNotFound, err)
}
