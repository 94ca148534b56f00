package persistence

import (
	"context"
	"errors"

	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/fibreflow/procurement/internal/domain/stock"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCableDrumRepository implements stock.CableDrumRepository using GORM
type GormCableDrumRepository struct {
	db *gorm.DB
}

// NewGormCableDrumRepository creates a new GormCableDrumRepository
func NewGormCableDrumRepository(db *gorm.DB) *GormCableDrumRepository {
	return &GormCableDrumRepository{db: db}
}

// FindByID finds a cable drum by its ID
func (r *GormCableDrumRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.CableDrum, error) {
	var drum stock.CableDrum
	if err := r.db.WithContext(ctx).First(&drum, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &drum, nil
}

// FindByDrumNumber finds a drum by number within a project
func (r *GormCableDrumRepository) FindByDrumNumber(ctx context.Context, projectID uuid.UUID, drumNumber string) (*stock.CableDrum, error) {
	var drum stock.CableDrum
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND drum_number = ?", projectID, drumNumber).
		First(&drum).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &drum, nil
}

// FindAllForProject lists cable drums for a project
func (r *GormCableDrumRepository) FindAllForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]stock.CableDrum, error) {
	var drums []stock.CableDrum
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.CableDrum{}).
			Where("project_id = ?", projectID),
		filter,
	)

	if err := query.Find(&drums).Error; err != nil {
		return nil, err
	}
	return drums, nil
}

// CountForProject counts cable drums for a project
func (r *GormCableDrumRepository) CountForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&stock.CableDrum{}).Where("project_id = ?", projectID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByDrumNumber checks drum number uniqueness within a project
func (r *GormCableDrumRepository) ExistsByDrumNumber(ctx context.Context, projectID uuid.UUID, drumNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.CableDrum{}).
		Where("project_id = ? AND drum_number = ?", projectID, drumNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a cable drum
func (r *GormCableDrumRepository) Save(ctx context.Context, drum *stock.CableDrum) error {
	return r.db.WithContext(ctx).Save(drum).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormCableDrumRepository) SaveWithLock(ctx context.Context, drum *stock.CableDrum) error {
	result := r.db.WithContext(ctx).
		Model(drum).
		Where("id = ? AND version = ?", drum.ID, drum.Version-1).
		Updates(map[string]interface{}{
			"current_length":      drum.CurrentLength,
			"used_length":         drum.UsedLength,
			"last_meter_reading":  drum.LastMeterReading,
			"installation_status": drum.InstallationStatus,
			"location":            drum.Location,
			"version":             drum.Version,
			"updated_at":          drum.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Cable drum was modified by another transaction")
	}
	return nil
}

// SaveUsage appends a usage history row
func (r *GormCableDrumRepository) SaveUsage(ctx context.Context, usage *stock.DrumUsage) error {
	return r.db.WithContext(ctx).Create(usage).Error
}

// FindUsageByDrum lists usage history for a drum, oldest first
func (r *GormCableDrumRepository) FindUsageByDrum(ctx context.Context, drumID uuid.UUID, filter shared.Filter) ([]stock.DrumUsage, error) {
	var usage []stock.DrumUsage
	query := r.db.WithContext(ctx).Model(&stock.DrumUsage{}).
		Where("drum_id = ?", drumID).
		Order("recorded_at ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&usage).Error; err != nil {
		return nil, err
	}
	return usage, nil
}

// applyFilter applies filter options to the query
func (r *GormCableDrumRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply ordering with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, DrumSortFields, "drum_number")
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
func (r *GormCableDrumRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("drum_number ILIKE ? OR cable_type ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "installation_status":
			query = query.Where("installation_status = ?", value)
		case "cable_type":
			query = query.Where("cable_type = ?", value)
		case "item_code":
			query = query.Where("item_code = ?", value)
		case "location":
			query = query.Where("location = ?", value)
		case "has_remaining":
			if value == true {
				query = query.Where("current_length > 0")
			}
		}
	}

	return query
}

// Ensure GormCableDrumRepository implements CableDrumRepository
var _ stock.CableDrumRepository = (*GormCableDrumRepository)(nil)
