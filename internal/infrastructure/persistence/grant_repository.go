package persistence

import (
	"context"

	"github.com/fibreflow/procurement/internal/domain/access"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormGrantRepository implements access.GrantRepository using GORM.
// The grant table is written by the external access-grant source; this
// repository is read-only.
type GormGrantRepository struct {
	db *gorm.DB
}

// NewGormGrantRepository creates a new GormGrantRepository
func NewGormGrantRepository(db *gorm.DB) *GormGrantRepository {
	return &GormGrantRepository{db: db}
}

// FindActiveByUser lists a user's active grants across projects.
// Expiry is not filtered here; the access service checks ExpiresAt so it
// can distinguish an expired grant from a missing one.
func (r *GormGrantRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]access.Grant, error) {
	var grants []access.Grant
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, "active").
		Order("granted_at DESC").
		Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}

// Ensure GormGrantRepository implements GrantRepository
var _ access.GrantRepository = (*GormGrantRepository)(nil)
