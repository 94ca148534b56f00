package access

import (
	"context"
	"time"

	"github.com/fibreflow/procurement/internal/domain/access"
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service answers project access and permission questions. Grant and
// permission lookups are cached with short TTLs so a revoked grant is
// honored within one TTL window at worst.
type Service struct {
	grantRepo access.GrantRepository
	grants    access.GrantCache
	perms     access.PermissionCache
	config    access.CacheConfig
	logger    *zap.Logger
	now       func() time.Time
}

// ServiceOption is a functional option for configuring the service
type ServiceOption func(*Service)

// WithCacheConfig sets the cache TTL configuration
func WithCacheConfig(config access.CacheConfig) ServiceOption {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the time source, used by expiry tests
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates an access service over the grant source and caches
func NewService(grantRepo access.GrantRepository, grants access.GrantCache, perms access.PermissionCache, opts ...ServiceOption) *Service {
	s := &Service{
		grantRepo: grantRepo,
		grants:    grants,
		perms:     perms,
		config:    access.DefaultCacheConfig(),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckProjectAccess verifies that the user holds at least the required
// level on the project. Returns ACCESS_DENIED when no grant exists or
// the grant's level is too low, and PROJECT_ACCESS_EXPIRED when the
// grant has lapsed. INSUFFICIENT_PERMISSIONS is reserved for the RBAC
// permission-string check.
func (s *Service) CheckProjectAccess(ctx context.Context, userID, projectID uuid.UUID, required access.Level) error {
	grant, err := s.findGrant(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if grant == nil {
		return shared.NewDomainError("ACCESS_DENIED", "No access to this project")
	}
	if grant.IsExpired(s.now()) {
		// Drop the stale entry so a renewed grant is picked up promptly
		if err := s.grants.InvalidateUser(ctx, userID); err != nil {
			s.logger.Warn("Failed to invalidate grant cache", zap.Error(err))
		}
		return shared.NewDomainError("PROJECT_ACCESS_EXPIRED", "Project access has expired")
	}
	if !grant.Level().Satisfies(required) {
		return shared.NewDomainError("ACCESS_DENIED",
			"Requires "+string(required)+" access, has "+string(grant.Level()))
	}
	return nil
}

// CheckOperation verifies access for an operation verb (read, create,
// update, delete), mapping it to the level it requires.
func (s *Service) CheckOperation(ctx context.Context, userID, projectID uuid.UUID, operation string) error {
	return s.CheckProjectAccess(ctx, userID, projectID, access.LevelForOperation(operation))
}

// ResolvePermissions returns the user's RBAC permission set on a project,
// resolved from grant roles and cached
func (s *Service) ResolvePermissions(ctx context.Context, userID, projectID uuid.UUID) ([]string, error) {
	if permissions, found, err := s.perms.Get(ctx, userID, projectID); err == nil && found {
		return permissions, nil
	} else if err != nil {
		s.logger.Warn("Permission cache read failed", zap.Error(err))
	}

	grant, err := s.findGrant(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	var permissions []string
	if grant != nil && !grant.IsExpired(s.now()) {
		permissions = access.PermissionsForRoles(grant.Roles)
	}
	if permissions == nil {
		permissions = []string{}
	}

	if err := s.perms.Set(ctx, userID, projectID, permissions, s.config.PermissionTTL); err != nil {
		s.logger.Warn("Permission cache write failed", zap.Error(err))
	}
	return permissions, nil
}

// HasPermission checks one permission string against the resolved set
func (s *Service) HasPermission(ctx context.Context, userID, projectID uuid.UUID, permission string) (bool, error) {
	permissions, err := s.ResolvePermissions(ctx, userID, projectID)
	if err != nil {
		return false, err
	}
	for _, p := range permissions {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

// ProjectIDs lists the projects the user currently holds a live grant on
func (s *Service) ProjectIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	grants, err := s.loadGrants(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	ids := make([]uuid.UUID, 0, len(grants))
	for i := range grants {
		if !grants[i].IsExpired(now) {
			ids = append(ids, grants[i].ProjectID)
		}
	}
	return ids, nil
}

// InvalidateUser drops all cached access state for one user
func (s *Service) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.grants.InvalidateUser(ctx, userID); err != nil {
		return err
	}
	return s.perms.InvalidateUser(ctx, userID)
}

// InvalidateProject drops cached permissions for one project
func (s *Service) InvalidateProject(ctx context.Context, projectID uuid.UUID) error {
	return s.perms.InvalidateProject(ctx, projectID)
}

// InvalidateAll drops every cached grant and permission set
func (s *Service) InvalidateAll(ctx context.Context) error {
	if err := s.grants.InvalidateAll(ctx); err != nil {
		return err
	}
	return s.perms.InvalidateAll(ctx)
}

// Close releases both caches. Safe to call more than once.
func (s *Service) Close() error {
	var lastErr error
	if err := s.grants.Close(); err != nil {
		lastErr = err
	}
	if err := s.perms.Close(); err != nil {
		lastErr = err
	}
	return lastErr
}

// findGrant returns the user's grant for the project, or nil when absent
func (s *Service) findGrant(ctx context.Context, userID, projectID uuid.UUID) (*access.Grant, error) {
	grants, err := s.loadGrants(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range grants {
		if grants[i].ProjectID == projectID {
			return &grants[i], nil
		}
	}
	return nil, nil
}

// loadGrants reads the user's grants through the grant cache
func (s *Service) loadGrants(ctx context.Context, userID uuid.UUID) ([]access.Grant, error) {
	if grants, found, err := s.grants.Get(ctx, userID); err == nil && found {
		return grants, nil
	} else if err != nil {
		s.logger.Warn("Grant cache read failed", zap.Error(err))
	}

	grants, err := s.grantRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.grants.Set(ctx, userID, grants, s.config.GrantTTL); err != nil {
		s.logger.Warn("Grant cache write failed", zap.Error(err))
	}
	return grants, nil
}
