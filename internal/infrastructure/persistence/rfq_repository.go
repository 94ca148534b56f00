package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/fibreflow/procurement/internal/domain/procurement"
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRFQRepository implements procurement.RFQRepository using GORM
type GormRFQRepository struct {
	db *gorm.DB
}

// NewGormRFQRepository creates a new GormRFQRepository
func NewGormRFQRepository(db *gorm.DB) *GormRFQRepository {
	return &GormRFQRepository{db: db}
}

// FindByID finds an RFQ by its ID
func (r *GormRFQRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.RFQ, error) {
	var rfq procurement.RFQ
	if err := r.db.WithContext(ctx).First(&rfq, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rfq, nil
}

// FindByIDForProject finds an RFQ by ID within a project
func (r *GormRFQRepository) FindByIDForProject(ctx context.Context, projectID, id uuid.UUID) (*procurement.RFQ, error) {
	var rfq procurement.RFQ
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND id = ?", projectID, id).
		First(&rfq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rfq, nil
}

// FindByNumber finds an RFQ by its reference number
func (r *GormRFQRepository) FindByNumber(ctx context.Context, rfqNumber string) (*procurement.RFQ, error) {
	var rfq procurement.RFQ
	if err := r.db.WithContext(ctx).
		Where("rfq_number = ?", rfqNumber).
		First(&rfq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rfq, nil
}

// FindAllForProject lists RFQs for a project
func (r *GormRFQRepository) FindAllForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]procurement.RFQ, error) {
	var rfqs []procurement.RFQ
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&procurement.RFQ{}).
			Where("project_id = ?", projectID),
		filter,
	)

	if err := query.Find(&rfqs).Error; err != nil {
		return nil, err
	}
	return rfqs, nil
}

// CountForProject counts RFQs for a project
func (r *GormRFQRepository) CountForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&procurement.RFQ{}).Where("project_id = ?", projectID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an RFQ
func (r *GormRFQRepository) Save(ctx context.Context, rfq *procurement.RFQ) error {
	return r.db.WithContext(ctx).Save(rfq).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormRFQRepository) SaveWithLock(ctx context.Context, rfq *procurement.RFQ) error {
	supplierIDs, err := json.Marshal(rfq.SupplierIDs)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(rfq).
		Where("id = ? AND version = ?", rfq.ID, rfq.Version-1).
		Updates(map[string]interface{}{
			"title":                 rfq.Title,
			"description":           rfq.Description,
			"status":                rfq.Status,
			"supplier_ids":          supplierIDs,
			"response_deadline":     rfq.ResponseDeadline,
			"payment_terms":         rfq.PaymentTerms,
			"delivery_terms":        rfq.DeliveryTerms,
			"validity_period_days":  rfq.ValidityPeriodDays,
			"currency":              rfq.Currency,
			"total_budget_estimate": rfq.TotalBudgetEstimate,
			"issued_at":             rfq.IssuedAt,
			"closed_at":             rfq.ClosedAt,
			"version":               rfq.Version,
			"updated_at":            rfq.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "RFQ was modified by another transaction")
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormRFQRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply ordering with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, RFQSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormRFQRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("rfq_number ILIKE ? OR title ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "boq_id":
			query = query.Where("boq_id = ?", value)
		case "currency":
			query = query.Where("currency = ?", value)
		case "deadline_before":
			query = query.Where("response_deadline < ?", value)
		case "deadline_after":
			query = query.Where("response_deadline > ?", value)
		}
	}

	return query
}

// Ensure GormRFQRepository implements RFQRepository
var _ procurement.RFQRepository = (*GormRFQRepository)(nil)
