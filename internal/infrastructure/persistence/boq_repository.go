package persistence

import (
	"context"
	"errors"

	"github.com/fibreflow/procurement/internal/domain/procurement"
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBOQRepository implements procurement.BOQRepository using GORM
type GormBOQRepository struct {
	db *gorm.DB
}

// NewGormBOQRepository creates a new GormBOQRepository
func NewGormBOQRepository(db *gorm.DB) *GormBOQRepository {
	return &GormBOQRepository{db: db}
}

// FindByID finds a BOQ with its items and exceptions
func (r *GormBOQRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.BOQ, error) {
	var boq procurement.BOQ
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Preload("Exceptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("row_number ASC")
		}).
		First(&boq, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &boq, nil
}

// FindByIDForProject finds a BOQ by ID within a project
func (r *GormBOQRepository) FindByIDForProject(ctx context.Context, projectID, id uuid.UUID) (*procurement.BOQ, error) {
	var boq procurement.BOQ
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Preload("Exceptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("row_number ASC")
		}).
		Where("project_id = ? AND id = ?", projectID, id).
		First(&boq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &boq, nil
}

// FindAllForProject lists BOQs for a project (headers only, no children)
func (r *GormBOQRepository) FindAllForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]procurement.BOQ, error) {
	var boqs []procurement.BOQ
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&procurement.BOQ{}).
			Where("project_id = ?", projectID),
		filter,
	)

	if err := query.Find(&boqs).Error; err != nil {
		return nil, err
	}
	return boqs, nil
}

// CountForProject counts BOQs for a project
func (r *GormBOQRepository) CountForProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&procurement.BOQ{}).Where("project_id = ?", projectID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save inserts or updates a BOQ together with its items and exceptions.
// Children removed from the aggregate (resolved exceptions) are deleted.
func (r *GormBOQRepository) Save(ctx context.Context, boq *procurement.BOQ) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Save the header without auto-saving associations
		if err := tx.Omit("Items", "Exceptions").Save(boq).Error; err != nil {
			return err
		}

		// Upsert item lines
		if len(boq.Items) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&boq.Items).Error; err != nil {
				return err
			}
		}

		// Delete exceptions no longer in the aggregate
		if len(boq.Exceptions) > 0 {
			currentIDs := make([]uuid.UUID, len(boq.Exceptions))
			for i, exc := range boq.Exceptions {
				currentIDs[i] = exc.ID
			}
			if err := tx.Where("boq_id = ? AND id NOT IN ?", boq.ID, currentIDs).
				Delete(&procurement.BOQException{}).Error; err != nil {
				return err
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&boq.Exceptions).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("boq_id = ?", boq.ID).
				Delete(&procurement.BOQException{}).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete removes a BOQ and its children
func (r *GormBOQRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("boq_id = ?", id).Delete(&procurement.BOQItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("boq_id = ?", id).Delete(&procurement.BOQException{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&procurement.BOQ{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// applyFilter applies filter options to the query
func (r *GormBOQRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply ordering with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, BOQSortFields, "created_at")
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
func (r *GormBOQRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR file_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "mapping_status":
			query = query.Where("mapping_status = ?", value)
		case "uploaded_by":
			query = query.Where("uploaded_by = ?", value)
		case "has_exceptions":
			if value == true {
				query = query.Where("exceptions_count > 0")
			}
		}
	}

	return query
}

// Ensure GormBOQRepository implements BOQRepository
var _ procurement.BOQRepository = (*GormBOQRepository)(nil)
