package persistence

import (
	"context"
	"time"

	"github.com/fibreflow/procurement/internal/domain/audit"
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditRepository implements audit.Repository using GORM.
// Records are append-only; there is no update or delete path.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Save appends an audit record
func (r *GormAuditRepository) Save(ctx context.Context, record *audit.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByResource lists records for a resource, newest first
func (r *GormAuditRepository) FindByResource(ctx context.Context, resource string, resourceID uuid.UUID, filter shared.Filter) ([]audit.Record, error) {
	var records []audit.Record
	query := r.db.WithContext(ctx).Model(&audit.Record{}).
		Where("resource = ? AND resource_id = ?", resource, resourceID).
		Order("created_at DESC")

	query = r.applyPagination(query, filter)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByProject lists records for a project within a time range
func (r *GormAuditRepository) FindByProject(ctx context.Context, projectID uuid.UUID, from, to time.Time, filter shared.Filter) ([]audit.Record, error) {
	var records []audit.Record
	query := r.db.WithContext(ctx).Model(&audit.Record{}).
		Where("project_id = ? AND created_at >= ? AND created_at <= ?", projectID, from, to)

	for key, value := range filter.Filters {
		switch key {
		case "action":
			query = query.Where("action = ?", value)
		case "resource":
			query = query.Where("resource = ?", value)
		case "actor_id":
			query = query.Where("actor_id = ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, AuditSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	query = r.applyPagination(query, filter)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *GormAuditRepository) applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormAuditRepository implements Repository
var _ audit.Repository = (*GormAuditRepository)(nil)
