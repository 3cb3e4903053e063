package router

import (
	"github.com/gin-gonic/gin"
)

const apiVersion = "/api/v1"

// RouteRegistrar is implemented by handlers that register authenticated
// API routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router assembles the API route tree
type Router struct {
	engine     *gin.Engine
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// New creates a Router on an existing gin engine. The given middleware
// runs on the authenticated API group only.
func New(engine *gin.Engine, middleware ...gin.HandlerFunc) *Router {
	return &Router{
		engine:     engine,
		middleware: middleware,
	}
}

// Register adds handlers to the authenticated API group
func (r *Router) Register(registrars ...RouteRegistrar) {
	r.registrars = append(r.registrars, registrars...)
}

// Setup builds the route tree under /api/v1
func (r *Router) Setup() {
	api := r.engine.Group(apiVersion)
	api.Use(r.middleware...)

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}
