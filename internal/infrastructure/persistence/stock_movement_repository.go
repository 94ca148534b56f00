package persistence

import (
	"context"
	"errors"

	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/fibreflow/procurement/internal/domain/stock"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements stock.MovementRepository using GORM.
// Movements are append-only: Save only ever inserts.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// FindByID finds a movement with its item lines
func (r *GormStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Movement, error) {
	var movement stock.Movement
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindAllForProject lists movements for a project
func (r *GormStockMovementRepository) FindAllForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]stock.Movement, error) {
	var movements []stock.Movement
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.Movement{}).
			Where("project_id = ?", projectID),
		filter,
	)

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// CountForProject counts movements for a project
func (r *GormStockMovementRepository) CountForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&stock.Movement{}).Where("project_id = ?", projectID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByReference checks whether a reference number was already used within the project
func (r *GormStockMovementRepository) ExistsByReference(ctx context.Context, projectID uuid.UUID, referenceNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.Movement{}).
		Where("project_id = ? AND reference_number = ?", projectID, referenceNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts a movement together with its item lines
func (r *GormStockMovementRepository) Save(ctx context.Context, movement *stock.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindItemsByPosition lists movement lines that touched a position
func (r *GormStockMovementRepository) FindItemsByPosition(ctx context.Context, positionID uuid.UUID, filter shared.Filter) ([]stock.MovementItem, error) {
	var items []stock.MovementItem
	query := r.db.WithContext(ctx).Model(&stock.MovementItem{}).
		Where("position_id = ?", positionID)

	sortField := ValidateSortField(filter.OrderBy, MovementItemSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// applyFilter applies filter options to the query
func (r *GormStockMovementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply ordering with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, MovementSortFields, "movement_date")
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
func (r *GormStockMovementRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("reference_number ILIKE ? OR notes ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "movement_type":
			query = query.Where("movement_type = ?", value)
		case "performed_by":
			query = query.Where("performed_by = ?", value)
		case "from_location":
			query = query.Where("from_location = ?", value)
		case "to_location":
			query = query.Where("to_location = ?", value)
		case "date_from":
			query = query.Where("movement_date >= ?", value)
		case "date_to":
			query = query.Where("movement_date <= ?", value)
		}
	}

	return query
}

// Ensure GormStockMovementRepository implements MovementRepository
var _ stock.MovementRepository = (*GormStockMovementRepository)(nil)
