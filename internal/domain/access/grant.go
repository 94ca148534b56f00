package access

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Grant is a user's access to one project, as recorded by the external
// access-grant source. This module only reads grants; the source of
// truth lives outside it.
type Grant struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_access_user_project,priority:1"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_access_user_project,priority:2"`
	Roles       []string   `gorm:"type:jsonb;serializer:json;not null"`
	Departments []string   `gorm:"type:jsonb;serializer:json"`
	GrantedBy   string     `gorm:"type:varchar(64);not null;default:'system'"`
	GrantedAt   time.Time  `gorm:"not null"`
	ExpiresAt   *time.Time `gorm:"index"`
	Status      string     `gorm:"type:varchar(16);not null;default:'active'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the database table name
func (Grant) TableName() string {
	return "user_project_access"
}

// Level derives the access level from the grant's roles. A member with
// several roles gets the highest level among them.
func (g *Grant) Level() Level {
	level := LevelNone
	for _, role := range g.Roles {
		if candidate := LevelForRole(role); candidate.Rank() > level.Rank() {
			level = candidate
		}
	}
	return level
}

// IsExpired checks the optional expiry against the given time
func (g *Grant) IsExpired(now time.Time) bool {
	return g.ExpiresAt != nil && g.ExpiresAt.Before(now)
}

// GrantRepository reads access grants from the grant source
type GrantRepository interface {
	// FindActiveByUser lists a user's active grants across projects
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]Grant, error)
}

// RolePermissions maps member roles to their RBAC permission sets. The
// table is static; resolution results are cached by the access service.
var RolePermissions = map[string][]string{
	"owner":           {"boq:read", "boq:write", "boq:delete", "rfq:read", "rfq:write", "rfq:delete", "stock:read", "stock:write", "stock:delete", "project:manage"},
	"admin":           {"boq:read", "boq:write", "boq:delete", "rfq:read", "rfq:write", "rfq:delete", "stock:read", "stock:write", "stock:delete", "project:manage"},
	"project_manager": {"boq:read", "boq:write", "boq:delete", "rfq:read", "rfq:write", "rfq:delete", "stock:read", "stock:write", "project:manage"},
	"lead_engineer":   {"boq:read", "boq:write", "rfq:read", "rfq:write", "stock:read", "stock:write"},
	"engineer":        {"boq:read", "boq:write", "rfq:read", "stock:read", "stock:write"},
	"technician":      {"boq:read", "rfq:read", "stock:read"},
	"viewer":          {"boq:read", "rfq:read", "stock:read"},
	"read_only":       {"boq:read", "rfq:read", "stock:read"},
}

// PermissionsForRoles resolves the union of permissions for a role set
func PermissionsForRoles(roles []string) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, role := range roles {
		for _, perm := range RolePermissions[role] {
			if _, ok := seen[perm]; !ok {
				seen[perm] = struct{}{}
				result = append(result, perm)
			}
		}
	}
	return result
}
