package procurement

import (
	"context"

	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
)

// BOQRepository defines the interface for BOQ persistence
type BOQRepository interface {
	// FindByID finds a BOQ with its items and exceptions
	FindByID(ctx context.Context, id uuid.UUID) (*BOQ, error)

	// FindByIDForProject finds a BOQ by ID within a project
	FindByIDForProject(ctx context.Context, projectID, id uuid.UUID) (*BOQ, error)

	// FindAllForProject lists BOQs for a project (headers only)
	FindAllForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]BOQ, error)

	// CountForProject counts BOQs matching the filter
	CountForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error)

	// Save inserts or updates a BOQ together with items and exceptions
	Save(ctx context.Context, boq *BOQ) error

	// Delete removes a BOQ and its children
	Delete(ctx context.Context, id uuid.UUID) error
}

// RFQRepository defines the interface for RFQ persistence
type RFQRepository interface {
	// FindByID finds an RFQ by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*RFQ, error)

	// FindByIDForProject finds an RFQ by ID within a project
	FindByIDForProject(ctx context.Context, projectID, id uuid.UUID) (*RFQ, error)

	// FindByNumber finds an RFQ by its reference number
	FindByNumber(ctx context.Context, rfqNumber string) (*RFQ, error)

	// FindAllForProject lists RFQs for a project
	FindAllForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]RFQ, error)

	// CountForProject counts RFQs matching the filter
	CountForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates an RFQ
	Save(ctx context.Context, rfq *RFQ) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, rfq *RFQ) error
}

// SupplierLookup resolves supplier existence. The supplier registry is
// owned by another service; only an existence check is needed here.
type SupplierLookup interface {
	// ExistingIDs returns the subset of the given supplier IDs that exist
	ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}
