package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/newsletter-signup/internal/handler"
)

// registerSystemRoutes registers endpoints that are not part of the
// signup flow.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
}
