package procurement

import (
	"context"
	"time"

	"github.com/fibreflow/procurement/internal/domain/audit"
	"github.com/fibreflow/procurement/internal/domain/procurement"
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockBOQRepository is a mock implementation of procurement.BOQRepository
type MockBOQRepository struct {
	mock.Mock
}

func (m *MockBOQRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.BOQ, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.BOQ), args.Error(1)
}

func (m *MockBOQRepository) FindByIDForProject(ctx context.Context, projectID, id uuid.UUID) (*procurement.BOQ, error) {
	args := m.Called(ctx, projectID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.BOQ), args.Error(1)
}

func (m *MockBOQRepository) FindAllForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]procurement.BOQ, error) {
	args := m.Called(ctx, projectID, filter)
	return args.Get(0).([]procurement.BOQ), args.Error(1)
}

func (m *MockBOQRepository) CountForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, projectID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBOQRepository) Save(ctx context.Context, boq *procurement.BOQ) error {
	args := m.Called(ctx, boq)
	return args.Error(0)
}

func (m *MockBOQRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRFQRepository is a mock implementation of procurement.RFQRepository
type MockRFQRepository struct {
	mock.Mock
}

func (m *MockRFQRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.RFQ, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.RFQ), args.Error(1)
}

func (m *MockRFQRepository) FindByIDForProject(ctx context.Context, projectID, id uuid.UUID) (*procurement.RFQ, error) {
	args := m.Called(ctx, projectID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.RFQ), args.Error(1)
}

func (m *MockRFQRepository) FindByNumber(ctx context.Context, rfqNumber string) (*procurement.RFQ, error) {
	args := m.Called(ctx, rfqNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.RFQ), args.Error(1)
}

func (m *MockRFQRepository) FindAllForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]procurement.RFQ, error) {
	args := m.Called(ctx, projectID, filter)
	return args.Get(0).([]procurement.RFQ), args.Error(1)
}

func (m *MockRFQRepository) CountForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, projectID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRFQRepository) Save(ctx context.Context, rfq *procurement.RFQ) error {
	args := m.Called(ctx, rfq)
	return args.Error(0)
}

func (m *MockRFQRepository) SaveWithLock(ctx context.Context, rfq *procurement.RFQ) error {
	args := m.Called(ctx, rfq)
	return args.Error(0)
}

// MockSupplierLookup is a mock implementation of procurement.SupplierLookup
type MockSupplierLookup struct {
	mock.Mock
}

func (m *MockSupplierLookup) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockNotifier is a mock implementation of SupplierNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyIssued(ctx context.Context, rfq *procurement.RFQ) error {
	args := m.Called(ctx, rfq)
	return args.Error(0)
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
