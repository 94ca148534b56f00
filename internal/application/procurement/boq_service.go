package procurement

import (
	"context"

	"github.com/fibreflow/procurement/internal/domain/audit"
	"github.com/fibreflow/procurement/internal/domain/procurement"
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// BOQService manages bill-of-quantities imports and mapping review.
// An import is all-or-nothing: any invalid row rejects the whole file.
type BOQService struct {
	boqRepo   procurement.BOQRepository
	auditRepo audit.Repository
	logger    *zap.Logger
}

// NewBOQService creates a BOQService
func NewBOQService(boqRepo procurement.BOQRepository, auditRepo audit.Repository, logger *zap.Logger) *BOQService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BOQService{
		boqRepo:   boqRepo,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// ImportInput carries one BOQ file upload
type ImportInput struct {
	ProjectID  uuid.UUID
	Title      string
	FileName   string
	Data       []byte
	UploadedBy uuid.UUID
}

// Import parses, validates and persists a BOQ upload. Rows without an
// item code are kept but recorded as mapping exceptions for review.
func (s *BOQService) Import(ctx context.Context, in ImportInput) (*BOQResponse, error) {
	rows, err := ParseImportFile(in.FileName, in.Data)
	if err != nil {
		return nil, err
	}

	boq, err := procurement.NewBOQ(in.ProjectID, in.Title, in.FileName, int64(len(in.Data)), in.UploadedBy)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		confidence := decimal.Zero
		if row.ItemCode != "" {
			confidence = decimal.NewFromInt(1)
		}
		boq.AddItem(row.LineNumber, row.ItemCode, row.Description, row.UOM,
			row.Quantity, row.UnitPrice, confidence)
		if row.ItemCode == "" {
			boq.AddException(row.LineNumber, "No catalog mapping for: "+row.Description)
		}
	}

	if err := s.boqRepo.Save(ctx, boq); err != nil {
		return nil, err
	}

	s.writeAudit(ctx, in.UploadedBy, boq, "procurement.boq.import", nil, map[string]any{
		"file_name":   in.FileName,
		"total_items": boq.TotalItems,
		"exceptions":  boq.ExceptionsCount,
	})
	return ToBOQResponse(boq, true), nil
}

// List returns a page of BOQ headers for a project
func (s *BOQService) List(ctx context.Context, projectID uuid.UUID, page, pageSize int) (*shared.Paginated[BOQResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = page
	filter.PageSize = pageSize
	filter.Clamp(defaultPageSize, maxPageSize)

	boqs, err := s.boqRepo.FindAllForProject(ctx, projectID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.boqRepo.CountForProject(ctx, projectID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]BOQResponse, 0, len(boqs))
	for i := range boqs {
		items = append(items, *ToBOQResponse(&boqs[i], false))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Get returns one BOQ with its items and exceptions
func (s *BOQService) Get(ctx context.Context, projectID, id uuid.UUID) (*BOQResponse, error) {
	boq, err := s.boqRepo.FindByIDForProject(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	return ToBOQResponse(boq, true), nil
}

// ResolveException assigns an item code to an unresolved mapping row
func (s *BOQService) ResolveException(ctx context.Context, projectID, boqID, exceptionID uuid.UUID, itemCode string, actorID uuid.UUID) (*BOQResponse, error) {
	boq, err := s.boqRepo.FindByIDForProject(ctx, projectID, boqID)
	if err != nil {
		return nil, err
	}
	before := ToBOQResponse(boq, false)

	if err := boq.ResolveException(exceptionID, itemCode); err != nil {
		return nil, err
	}
	if err := s.boqRepo.Save(ctx, boq); err != nil {
		return nil, err
	}

	s.writeAudit(ctx, actorID, boq, "procurement.boq.resolve_exception", before, ToBOQResponse(boq, false))
	return ToBOQResponse(boq, true), nil
}

// Delete removes a BOQ and its children
func (s *BOQService) Delete(ctx context.Context, projectID, id uuid.UUID, actorID uuid.UUID) error {
	boq, err := s.boqRepo.FindByIDForProject(ctx, projectID, id)
	if err != nil {
		return err
	}
	if err := s.boqRepo.Delete(ctx, boq.ID); err != nil {
		return err
	}

	s.writeAudit(ctx, actorID, boq, "procurement.boq.delete", ToBOQResponse(boq, false), nil)
	return nil
}

func (s *BOQService) writeAudit(ctx context.Context, actorID uuid.UUID, boq *procurement.BOQ, action string, before, after any) {
	if s.auditRepo == nil {
		return
	}
	record := audit.NewRecord(actorID, boq.ProjectID, boq.ID, action, "boq", before, after)
	if err := s.auditRepo.Save(ctx, record); err != nil {
		s.logger.Error("Failed to write audit record",
			zap.String("action", action),
			zap.String("boq_id", boq.ID.String()),
			zap.Error(err))
	}
}
