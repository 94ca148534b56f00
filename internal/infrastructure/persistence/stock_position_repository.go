package persistence

import (
	"context"
	"errors"

	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/fibreflow/procurement/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockPositionRepository implements stock.PositionRepository using GORM
type GormStockPositionRepository struct {
	db *gorm.DB
}

// NewGormStockPositionRepository creates a new GormStockPositionRepository
func NewGormStockPositionRepository(db *gorm.DB) *GormStockPositionRepository {
	return &GormStockPositionRepository{db: db}
}

// FindByID finds a stock position by its ID
func (r *GormStockPositionRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Position, error) {
	var position stock.Position
	if err := r.db.WithContext(ctx).First(&position, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &position, nil
}

// FindByIDForProject finds a stock position by ID within a project
func (r *GormStockPositionRepository) FindByIDForProject(ctx context.Context, projectID, id uuid.UUID) (*stock.Position, error) {
	var position stock.Position
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND id = ?", projectID, id).
		First(&position).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &position, nil
}

// FindByItemCode finds the active position for a project item
func (r *GormStockPositionRepository) FindByItemCode(ctx context.Context, projectID uuid.UUID, itemCode string) (*stock.Position, error) {
	var position stock.Position
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND item_code = ? AND is_active = ?", projectID, itemCode, true).
		First(&position).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &position, nil
}

// FindAllForProject finds all stock positions for a project
func (r *GormStockPositionRepository) FindAllForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]stock.Position, error) {
	var positions []stock.Position
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.Position{}).
			Where("project_id = ?", projectID),
		filter,
	)

	if err := query.Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

// CountForProject counts stock positions for a project
func (r *GormStockPositionRepository) CountForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&stock.Position{}).Where("project_id = ?", projectID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByItemCode checks whether any position exists for the project-item combination
func (r *GormStockPositionRepository) ExistsByItemCode(ctx context.Context, projectID uuid.UUID, itemCode string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.Position{}).
		Where("project_id = ? AND item_code = ?", projectID, itemCode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a stock position
func (r *GormStockPositionRepository) Save(ctx context.Context, position *stock.Position) error {
	return r.db.WithContext(ctx).Save(position).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormStockPositionRepository) SaveWithLock(ctx context.Context, position *stock.Position) error {
	result := r.db.WithContext(ctx).
		Model(position).
		Where("id = ? AND version = ?", position.ID, position.Version-1).
		Updates(map[string]interface{}{
			"item_name":          position.ItemName,
			"uom":                position.UOM,
			"on_hand_quantity":   position.OnHandQuantity,
			"reserved_quantity":  position.ReservedQuantity,
			"available_quantity": position.AvailableQuantity,
			"average_unit_cost":  position.AverageUnitCost,
			"total_value":        position.TotalValue,
			"reorder_level":      position.ReorderLevel,
			"stock_status":       position.StockStatus,
			"is_active":          position.IsActive,
			"version":            position.Version,
			"updated_at":         position.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Stock position was modified by another transaction")
	}
	return nil
}

// SumValueForProject sums total stock value across active positions
func (r *GormStockPositionRepository) SumValueForProject(ctx context.Context, projectID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&stock.Position{}).
		Select("COALESCE(SUM(total_value), 0) as total").
		Where("project_id = ? AND is_active = ?", projectID, true).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// CountByStatusForProject counts active positions per stock status
func (r *GormStockPositionRepository) CountByStatusForProject(ctx context.Context, projectID uuid.UUID) (map[stock.Status]int64, error) {
	var rows []struct {
		StockStatus stock.Status
		Count       int64
	}
	if err := r.db.WithContext(ctx).
		Model(&stock.Position{}).
		Select("stock_status, COUNT(*) as count").
		Where("project_id = ? AND is_active = ?", projectID, true).
		Group("stock_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[stock.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.StockStatus] = row.Count
	}
	return counts, nil
}

// applyFilter applies filter options to the query
func (r *GormStockPositionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply ordering with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, PositionSortFields, "item_code")
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
func (r *GormStockPositionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("item_code ILIKE ? OR item_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "stock_status":
			query = query.Where("stock_status = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "uom":
			query = query.Where("uom = ?", value)
		case "below_reorder":
			if value == true {
				query = query.Where("reorder_level > 0 AND on_hand_quantity <= reorder_level")
			}
		case "has_reservations":
			if value == true {
				query = query.Where("reserved_quantity > 0")
			}
		case "has_stock":
			if value == true {
				query = query.Where("on_hand_quantity > 0")
			}
		case "no_stock":
			if value == true {
				query = query.Where("on_hand_quantity = 0")
			}
		}
	}

	return query
}

// Ensure GormStockPositionRepository implements PositionRepository
var _ stock.PositionRepository = (*GormStockPositionRepository)(nil)
