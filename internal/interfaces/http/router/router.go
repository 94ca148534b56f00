package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers a handler's routes on a router group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router assembles the HTTP surface from three layers: unauthenticated
// system routes at the engine root, authenticated API routes under
// /api/<version>, and project-scoped routes under
// /api/<version>/projects/:projectId where the access middleware runs.
type Router struct {
	engine            *gin.Engine
	apiVersion        string
	apiMiddleware     []gin.HandlerFunc
	projectMiddleware []gin.HandlerFunc
	system            []RouteRegistrar
	api               []RouteRegistrar
	project           []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAPIMiddleware sets the middleware chain for the authenticated API
// group, typically JWT auth, rate limiting and the body limit.
func WithAPIMiddleware(mw ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.apiMiddleware = append(r.apiMiddleware, mw...)
	}
}

// WithProjectMiddleware sets the middleware chain for the project-scoped
// group, typically the project access check.
func WithProjectMiddleware(mw ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.projectMiddleware = append(r.projectMiddleware, mw...)
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterSystem mounts a registrar at the engine root, outside auth.
// Health and readiness probes go here.
func (r *Router) RegisterSystem(registrar RouteRegistrar) *Router {
	r.system = append(r.system, registrar)
	return r
}

// Register mounts a registrar on the authenticated API group
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.api = append(r.api, registrar)
	return r
}

// RegisterProject mounts a registrar on the project-scoped group. Every
// request through it has passed the project access check and carries the
// validated project ID in context.
func (r *Router) RegisterProject(registrar RouteRegistrar) *Router {
	r.project = append(r.project, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	root := r.engine.Group("")
	for _, registrar := range r.system {
		registrar.RegisterRoutes(root)
	}

	api := r.engine.Group("/api/" + r.apiVersion)
	api.Use(r.apiMiddleware...)
	for _, registrar := range r.api {
		registrar.RegisterRoutes(api)
	}

	projects := api.Group("/projects/:projectId")
	projects.Use(r.projectMiddleware...)
	for _, registrar := range r.project {
		registrar.RegisterRoutes(projects)
	}
}
