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

// DrumService manages cable drums and their usage history
type DrumService struct {
	drumRepo  stock.CableDrumRepository
	scope     TransactionScope
	auditRepo audit.Repository
	logger    *zap.Logger
}

// NewDrumService creates a DrumService
func NewDrumService(drumRepo stock.CableDrumRepository, scope TransactionScope, auditRepo audit.Repository, logger *zap.Logger) *DrumService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DrumService{
		drumRepo:  drumRepo,
		scope:     scope,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// CreateDrumInput carries the fields for drum registration
type CreateDrumInput struct {
	ProjectID      uuid.UUID
	DrumNumber     string
	CableType      string
	ItemCode       string
	OriginalLength decimal.Decimal
	Location       string
	ActorID        uuid.UUID
}

// CreateDrum registers a new cable drum for a project
func (s *DrumService) CreateDrum(ctx context.Context, in CreateDrumInput) (*DrumResponse, error) {
	exists, err := s.drumRepo.ExistsByDrumNumber(ctx, in.ProjectID, in.DrumNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_ENTRY",
			"Cable drum already registered: "+in.DrumNumber)
	}

	drum, err := stock.NewCableDrum(in.ProjectID, in.DrumNumber, in.CableType, in.OriginalLength)
	if err != nil {
		return nil, err
	}
	drum.ItemCode = in.ItemCode
	drum.Location = in.Location
	if in.ActorID != uuid.Nil {
		drum.SetCreatedBy(in.ActorID)
	}

	if err := s.drumRepo.Save(ctx, drum); err != nil {
		return nil, err
	}
	s.writeAudit(ctx, in.ActorID, drum, "stock.drum.create", nil, ToDrumResponse(drum))
	return ToDrumResponse(drum), nil
}

// RecordUsageInput carries one usage event for a drum
type RecordUsageInput struct {
	ProjectID       uuid.UUID
	DrumNumber      string
	PreviousReading decimal.Decimal
	CurrentReading  decimal.Decimal
	UsedLength      decimal.Decimal
	PoleNumber      string
	SectionID       string
	Notes           string
	ActorID         uuid.UUID
}

// RecordUsage validates meter readings, updates the drum and appends the
// usage history row in one transaction.
func (s *DrumService) RecordUsage(ctx context.Context, in RecordUsageInput) (*DrumResponse, error) {
	var response *DrumResponse
	var before, after *DrumResponse
	var drum *stock.CableDrum

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		drum, err = repos.DrumRepo().FindByDrumNumber(ctx, in.ProjectID, in.DrumNumber)
		if err != nil {
			return err
		}
		before = ToDrumResponse(drum)

		usage, err := drum.RecordUsage(stock.RecordUsageInput{
			PreviousReading: in.PreviousReading,
			CurrentReading:  in.CurrentReading,
			UsedLength:      in.UsedLength,
			PoleNumber:      in.PoleNumber,
			SectionID:       in.SectionID,
			RecordedBy:      in.ActorID,
			Notes:           in.Notes,
		})
		if err != nil {
			return err
		}

		if err := repos.DrumRepo().SaveWithLock(ctx, drum); err != nil {
			return err
		}
		if err := repos.DrumRepo().SaveUsage(ctx, usage); err != nil {
			return err
		}
		after = ToDrumResponse(drum)
		response = after
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.writeAudit(ctx, in.ActorID, drum, "stock.drum.record_usage", before, after)
	return response, nil
}

// ListDrums returns a page of drums for a project
func (s *DrumService) ListDrums(ctx context.Context, projectID uuid.UUID, page, pageSize int) (*shared.Paginated[DrumResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = page
	filter.PageSize = pageSize
	filter.Clamp(defaultPageSize, maxPositionPageSize)

	drums, err := s.drumRepo.FindAllForProject(ctx, projectID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.drumRepo.CountForProject(ctx, projectID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]DrumResponse, 0, len(drums))
	for i := range drums {
		items = append(items, *ToDrumResponse(&drums[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetUsageHistory lists the usage events for a drum, oldest first
func (s *DrumService) GetUsageHistory(ctx context.Context, projectID uuid.UUID, drumNumber string, page, pageSize int) ([]DrumUsageResponse, error) {
	drum, err := s.drumRepo.FindByDrumNumber(ctx, projectID, drumNumber)
	if err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	filter.Page = page
	filter.PageSize = pageSize
	filter.Clamp(defaultPageSize, maxMovementPageSize)
	filter.OrderBy = "recorded_at"
	filter.OrderDir = "asc"

	history, err := s.drumRepo.FindUsageByDrum(ctx, drum.ID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]DrumUsageResponse, 0, len(history))
	for i := range history {
		items = append(items, *ToDrumUsageResponse(&history[i]))
	}
	return items, nil
}

func (s *DrumService) writeAudit(ctx context.Context, actorID uuid.UUID, drum *stock.CableDrum, action string, before, after any) {
	if s.auditRepo == nil {
		return
	}
	record := audit.NewRecord(actorID, drum.ProjectID, drum.ID, action, "cable_drum", before, after)
	if err := s.auditRepo.Save(ctx, record); err != nil {
		s.logger.Error("Failed to write audit record",
			zap.String("action", action),
			zap.String("drum", drum.DrumNumber),
			zap.Error(err))
	}
}
