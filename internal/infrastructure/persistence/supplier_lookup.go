package persistence

import (
	"context"

	"github.com/fibreflow/procurement/internal/domain/procurement"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplierLookup implements procurement.SupplierLookup against the
// replicated supplier registry table. Only existence checks are needed;
// supplier master data is owned by another service.
type GormSupplierLookup struct {
	db *gorm.DB
}

// NewGormSupplierLookup creates a new GormSupplierLookup
func NewGormSupplierLookup(db *gorm.DB) *GormSupplierLookup {
	return &GormSupplierLookup{db: db}
}

// ExistingIDs returns the subset of the given supplier IDs that exist
func (l *GormSupplierLookup) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}

	var existing []uuid.UUID
	if err := l.db.WithContext(ctx).
		Table("suppliers").
		Where("id IN ?", ids).
		Pluck("id", &existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// Ensure GormSupplierLookup implements SupplierLookup
var _ procurement.SupplierLookup = (*GormSupplierLookup)(nil)
