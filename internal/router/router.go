// Package router builds the echo router: global middleware, system
// routes and the versioned API group.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/newsletter-signup/internal/handler"
	"github.com/deppfellow/newsletter-signup/internal/middleware"
	"github.com/deppfellow/newsletter-signup/internal/server"
)

// NewRouter wires middleware and routes for s.
//
// Order matters: the New Relic transaction must exist before the context
// logger picks up trace ids, and the request id before either.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1")
	v1.POST("/subscribe", h.Subscribe.Route())

	return router
}
