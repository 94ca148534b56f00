package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/fibreflow/procurement/internal/domain/audit"
	"github.com/fibreflow/procurement/internal/domain/procurement"
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SupplierNotifier delivers RFQ notifications to suppliers. Delivery is
// best effort; failures are logged and never fail the RFQ operation.
type SupplierNotifier interface {
	NotifyIssued(ctx context.Context, rfq *procurement.RFQ) error
}

// RFQService manages the request-for-quote lifecycle
type RFQService struct {
	rfqRepo   procurement.RFQRepository
	suppliers procurement.SupplierLookup
	notifier  SupplierNotifier
	auditRepo audit.Repository
	logger    *zap.Logger
}

// NewRFQService creates an RFQService. The notifier may be nil.
func NewRFQService(
	rfqRepo procurement.RFQRepository,
	suppliers procurement.SupplierLookup,
	notifier SupplierNotifier,
	auditRepo audit.Repository,
	logger *zap.Logger,
) *RFQService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RFQService{
		rfqRepo:   rfqRepo,
		suppliers: suppliers,
		notifier:  notifier,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// CreateRFQInput carries the fields for RFQ creation
type CreateRFQInput struct {
	ProjectID           uuid.UUID
	Title               string
	Description         string
	SupplierIDs         []uuid.UUID
	BOQID               *uuid.UUID
	ResponseDeadline    *time.Time
	PaymentTerms        string
	DeliveryTerms       string
	ValidityPeriodDays  int
	Currency            string
	TotalBudgetEstimate decimal.Decimal
	ActorID             uuid.UUID
}

// Create validates supplier references and persists a draft RFQ
func (s *RFQService) Create(ctx context.Context, in CreateRFQInput) (*RFQResponse, error) {
	if len(in.SupplierIDs) > 0 {
		existing, err := s.suppliers.ExistingIDs(ctx, in.SupplierIDs)
		if err != nil {
			return nil, err
		}
		if missing := missingIDs(in.SupplierIDs, existing); len(missing) > 0 {
			return nil, shared.NewDomainError("VALIDATION_FAILED",
				fmt.Sprintf("Invalid RFQ data: unknown supplier IDs: %v", missing))
		}
	}

	rfq, err := procurement.NewRFQ(procurement.NewRFQInput{
		ProjectID:           in.ProjectID,
		Title:               in.Title,
		Description:         in.Description,
		SupplierIDs:         in.SupplierIDs,
		BOQID:               in.BOQID,
		ResponseDeadline:    in.ResponseDeadline,
		PaymentTerms:        in.PaymentTerms,
		DeliveryTerms:       in.DeliveryTerms,
		ValidityPeriodDays:  in.ValidityPeriodDays,
		Currency:            in.Currency,
		TotalBudgetEstimate: in.TotalBudgetEstimate,
		CreatedBy:           in.ActorID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.rfqRepo.Save(ctx, rfq); err != nil {
		return nil, err
	}

	s.writeAudit(ctx, in.ActorID, rfq, "procurement.rfq.create", nil, ToRFQResponse(rfq))
	return ToRFQResponse(rfq), nil
}

// List returns a page of RFQs for a project
func (s *RFQService) List(ctx context.Context, projectID uuid.UUID, page, pageSize int, status string) (*shared.Paginated[RFQResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = page
	filter.PageSize = pageSize
	filter.Clamp(defaultPageSize, maxPageSize)
	if status != "" {
		filter.Filters["status"] = status
	}

	rfqs, err := s.rfqRepo.FindAllForProject(ctx, projectID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.rfqRepo.CountForProject(ctx, projectID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]RFQResponse, 0, len(rfqs))
	for i := range rfqs {
		items = append(items, *ToRFQResponse(&rfqs[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Get returns one RFQ by ID within a project
func (s *RFQService) Get(ctx context.Context, projectID, id uuid.UUID) (*RFQResponse, error) {
	rfq, err := s.rfqRepo.FindByIDForProject(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	return ToRFQResponse(rfq), nil
}

// UpdateInput carries the editable draft fields
type UpdateInput struct {
	Title         string
	Description   string
	PaymentTerms  string
	DeliveryTerms string
	ActorID       uuid.UUID
}

// Update edits a draft RFQ. Issued documents reject edits.
func (s *RFQService) Update(ctx context.Context, projectID, id uuid.UUID, in UpdateInput) (*RFQResponse, error) {
	return s.mutate(ctx, projectID, id, in.ActorID, "procurement.rfq.update",
		func(r *procurement.RFQ) error {
			return r.UpdateDetails(in.Title, in.Description, in.PaymentTerms, in.DeliveryTerms)
		})
}

// Issue publishes a draft RFQ and notifies its suppliers
func (s *RFQService) Issue(ctx context.Context, projectID, id uuid.UUID, actorID uuid.UUID) (*RFQResponse, error) {
	resp, err := s.mutate(ctx, projectID, id, actorID, "procurement.rfq.issue",
		func(r *procurement.RFQ) error { return r.Issue() })
	if err != nil {
		return nil, err
	}
	s.notifySuppliers(ctx, projectID, id)
	return resp, nil
}

// NotifySuppliers re-sends the issued notification
func (s *RFQService) NotifySuppliers(ctx context.Context, projectID, id uuid.UUID) error {
	rfq, err := s.rfqRepo.FindByIDForProject(ctx, projectID, id)
	if err != nil {
		return err
	}
	if rfq.Status == procurement.RFQDraft {
		return shared.NewDomainError("INVALID_STATE", "RFQ must be issued before notifying suppliers")
	}
	s.notify(ctx, rfq)
	return nil
}

// MarkResponsesReceived records supplier response arrival
func (s *RFQService) MarkResponsesReceived(ctx context.Context, projectID, id uuid.UUID, actorID uuid.UUID) (*RFQResponse, error) {
	return s.mutate(ctx, projectID, id, actorID, "procurement.rfq.responses_received",
		func(r *procurement.RFQ) error { return r.MarkResponsesReceived() })
}

// Award marks the RFQ awarded
func (s *RFQService) Award(ctx context.Context, projectID, id uuid.UUID, actorID uuid.UUID) (*RFQResponse, error) {
	return s.mutate(ctx, projectID, id, actorID, "procurement.rfq.award",
		func(r *procurement.RFQ) error { return r.Award() })
}

// Close terminates the RFQ from any live state
func (s *RFQService) Close(ctx context.Context, projectID, id uuid.UUID, actorID uuid.UUID) (*RFQResponse, error) {
	return s.mutate(ctx, projectID, id, actorID, "procurement.rfq.close",
		func(r *procurement.RFQ) error { return r.Close() })
}

// ExtendDeadline pushes the response deadline out after issue
func (s *RFQService) ExtendDeadline(ctx context.Context, projectID, id uuid.UUID, newDeadline time.Time, actorID uuid.UUID) (*RFQResponse, error) {
	return s.mutate(ctx, projectID, id, actorID, "procurement.rfq.extend_deadline",
		func(r *procurement.RFQ) error { return r.ExtendDeadline(newDeadline) })
}

// mutate loads the RFQ, applies the change and saves under the
// optimistic version check
func (s *RFQService) mutate(ctx context.Context, projectID, id uuid.UUID, actorID uuid.UUID, action string, fn func(*procurement.RFQ) error) (*RFQResponse, error) {
	rfq, err := s.rfqRepo.FindByIDForProject(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	before := ToRFQResponse(rfq)

	if err := fn(rfq); err != nil {
		return nil, err
	}
	if err := s.rfqRepo.SaveWithLock(ctx, rfq); err != nil {
		return nil, err
	}

	s.writeAudit(ctx, actorID, rfq, action, before, ToRFQResponse(rfq))
	return ToRFQResponse(rfq), nil
}

func (s *RFQService) notifySuppliers(ctx context.Context, projectID, id uuid.UUID) {
	rfq, err := s.rfqRepo.FindByIDForProject(ctx, projectID, id)
	if err != nil {
		s.logger.Error("Failed to reload RFQ for notification", zap.Error(err))
		return
	}
	s.notify(ctx, rfq)
}

func (s *RFQService) notify(ctx context.Context, rfq *procurement.RFQ) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyIssued(ctx, rfq); err != nil {
		s.logger.Error("Failed to notify RFQ suppliers",
			zap.String("rfq_number", rfq.RFQNumber),
			zap.Int("suppliers", len(rfq.SupplierIDs)),
			zap.Error(err))
	}
}

func (s *RFQService) writeAudit(ctx context.Context, actorID uuid.UUID, rfq *procurement.RFQ, action string, before, after any) {
	if s.auditRepo == nil {
		return
	}
	record := audit.NewRecord(actorID, rfq.ProjectID, rfq.ID, action, "rfq", before, after)
	if err := s.auditRepo.Save(ctx, record); err != nil {
		s.logger.Error("Failed to write audit record",
			zap.String("action", action),
			zap.String("rfq_number", rfq.RFQNumber),
			zap.Error(err))
	}
}

// missingIDs returns the IDs in want that are absent from have
func missingIDs(want, have []uuid.UUID) []uuid.UUID {
	present := make(map[uuid.UUID]struct{}, len(have))
	for _, id := range have {
		present[id] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range want {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
