package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/fibreflow/procurement/internal/infrastructure/logger"
	"github.com/fibreflow/procurement/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Project context keys
const (
	ProjectIDKey   = "project_id"
	ProjectIDParam = "projectId"
	UserUUIDKey    = "user_uuid"
)

// AccessChecker answers project access questions for the middleware.
// Implemented by the access application service.
type AccessChecker interface {
	CheckOperation(ctx context.Context, userID, projectID uuid.UUID, operation string) error
	HasPermission(ctx context.Context, userID, projectID uuid.UUID, permission string) (bool, error)
}

// operationForMethod maps an HTTP method to the access operation verb
func operationForMethod(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead:
		return "read"
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

// ProjectAccess verifies that the authenticated user holds a live grant
// on the project named in the route, at the level the HTTP method
// implies. Runs after JWT authentication.
func ProjectAccess(checker AccessChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(GetJWTUserID(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		projectID, err := uuid.Parse(c.Param(ProjectIDParam))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Invalid project ID"))
			return
		}

		if err := checker.CheckOperation(c.Request.Context(), userID, projectID, operationForMethod(c.Request.Method)); err != nil {
			abortAccessError(c, err)
			return
		}

		c.Set(ProjectIDKey, projectID.String())
		c.Set(UserUUIDKey, userID)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithProjectID(ctx, log, projectID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequirePermission enforces one RBAC permission string on top of the
// project access check. Must run after ProjectAccess.
func RequirePermission(checker AccessChecker, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, okUser := GetUserUUID(c)
		projectID, okProject := GetProjectUUID(c)
		if !okUser || !okProject {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeAccessDenied, "No access to this project"))
			return
		}

		allowed, err := checker.HasPermission(c.Request.Context(), userID, projectID, permission)
		if err != nil {
			abortAccessError(c, err)
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeInsufficientPermissions, "Missing required permission: "+permission))
			return
		}
		c.Next()
	}
}

// abortAccessError maps access errors onto the response envelope
func abortAccessError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.AbortWithStatusJSON(dto.GetHTTPStatus(domainErr.Code),
			dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.ErrCodeInternal, "Access check failed"))
}

// GetProjectID returns the validated project ID string from context
func GetProjectID(c *gin.Context) string {
	return c.GetString(ProjectIDKey)
}

// GetProjectUUID returns the validated project ID from context
func GetProjectUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(ProjectIDKey))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetUserUUID returns the authenticated user ID from context
func GetUserUUID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(UserUUIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	id, err := uuid.Parse(GetJWTUserID(c))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
