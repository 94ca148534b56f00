package stock

import (
	"context"
	"time"

	"github.com/fibreflow/procurement/internal/domain/audit"
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/fibreflow/procurement/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPositionRepository is a mock implementation of stock.PositionRepository
type MockPositionRepository struct {
	mock.Mock
}

func (m *MockPositionRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Position, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Position), args.Error(1)
}

func (m *MockPositionRepository) FindByIDForProject(ctx context.Context, projectID, id uuid.UUID) (*stock.Position, error) {
	args := m.Called(ctx, projectID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Position), args.Error(1)
}

func (m *MockPositionRepository) FindByItemCode(ctx context.Context, projectID uuid.UUID, itemCode string) (*stock.Position, error) {
	args := m.Called(ctx, projectID, itemCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Position), args.Error(1)
}

func (m *MockPositionRepository) FindAllForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]stock.Position, error) {
	args := m.Called(ctx, projectID, filter)
	return args.Get(0).([]stock.Position), args.Error(1)
}

func (m *MockPositionRepository) CountForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, projectID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPositionRepository) ExistsByItemCode(ctx context.Context, projectID uuid.UUID, itemCode string) (bool, error) {
	args := m.Called(ctx, projectID, itemCode)
	return args.Bool(0), args.Error(1)
}

func (m *MockPositionRepository) Save(ctx context.Context, position *stock.Position) error {
	args := m.Called(ctx, position)
	return args.Error(0)
}

func (m *MockPositionRepository) SaveWithLock(ctx context.Context, position *stock.Position) error {
	args := m.Called(ctx, position)
	return args.Error(0)
}

func (m *MockPositionRepository) SumValueForProject(ctx context.Context, projectID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPositionRepository) CountByStatusForProject(ctx context.Context, projectID uuid.UUID) (map[stock.Status]int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(map[stock.Status]int64), args.Error(1)
}

// MockMovementRepository is a mock implementation of stock.MovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Movement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindAllForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]stock.Movement, error) {
	args := m.Called(ctx, projectID, filter)
	return args.Get(0).([]stock.Movement), args.Error(1)
}

func (m *MockMovementRepository) CountForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, projectID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMovementRepository) ExistsByReference(ctx context.Context, projectID uuid.UUID, referenceNumber string) (bool, error) {
	args := m.Called(ctx, projectID, referenceNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockMovementRepository) Save(ctx context.Context, movement *stock.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) FindItemsByPosition(ctx context.Context, positionID uuid.UUID, filter shared.Filter) ([]stock.MovementItem, error) {
	args := m.Called(ctx, positionID, filter)
	return args.Get(0).([]stock.MovementItem), args.Error(1)
}

// MockDrumRepository is a mock implementation of stock.CableDrumRepository
type MockDrumRepository struct {
	mock.Mock
}

func (m *MockDrumRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.CableDrum, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.CableDrum), args.Error(1)
}

func (m *MockDrumRepository) FindByDrumNumber(ctx context.Context, projectID uuid.UUID, drumNumber string) (*stock.CableDrum, error) {
	args := m.Called(ctx, projectID, drumNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.CableDrum), args.Error(1)
}

func (m *MockDrumRepository) FindAllForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]stock.CableDrum, error) {
	args := m.Called(ctx, projectID, filter)
	return args.Get(0).([]stock.CableDrum), args.Error(1)
}

func (m *MockDrumRepository) CountForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, projectID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDrumRepository) ExistsByDrumNumber(ctx context.Context, projectID uuid.UUID, drumNumber string) (bool, error) {
	args := m.Called(ctx, projectID, drumNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockDrumRepository) Save(ctx context.Context, drum *stock.CableDrum) error {
	args := m.Called(ctx, drum)
	return args.Error(0)
}

func (m *MockDrumRepository) SaveWithLock(ctx context.Context, drum *stock.CableDrum) error {
	args := m.Called(ctx, drum)
	return args.Error(0)
}

func (m *MockDrumRepository) SaveUsage(ctx context.Context, usage *stock.DrumUsage) error {
	args := m.Called(ctx, usage)
	return args.Error(0)
}

func (m *MockDrumRepository) FindUsageByDrum(ctx context.Context, drumID uuid.UUID, filter shared.Filter) ([]stock.DrumUsage, error) {
	args := m.Called(ctx, drumID, filter)
	return args.Get(0).([]stock.DrumUsage), args.Error(1)
}

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Save(ctx context.Context, record *audit.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditRepository) FindByResource(ctx context.Context, resource string, resourceID uuid.UUID, filter shared.Filter) ([]audit.Record, error) {
	args := m.Called(ctx, resource, resourceID, filter)
	return args.Get(0).([]audit.Record), args.Error(1)
}

func (m *MockAuditRepository) FindByProject(ctx context.Context, projectID uuid.UUID, from, to time.Time, filter shared.Filter) ([]audit.Record, error) {
	args := m.Called(ctx, projectID, from, to, filter)
	return args.Get(0).([]audit.Record), args.Error(1)
}
