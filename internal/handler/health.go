package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/newsletter-signup/internal/middleware"
	"github.com/deppfellow/newsletter-signup/internal/server"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// HealthResponse is the body of GET /status.
type HealthResponse struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	Environment  string    `json:"environment"`
	MailProvider string    `json:"mail_provider"`
}

// CheckHealth reports that the process is up. Providers are not probed.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:       "healthy",
		Timestamp:    time.Now().UTC(),
		Environment:  h.server.Config.Primary.Env,
		MailProvider: h.server.Config.Mail.Provider,
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")

		if app := h.server.LoggerService.GetApplication(); app != nil {
			app.RecordCustomEvent("HealthCheckError", map[string]any{
				"operation":     "health_check",
				"error_type":    "json_response_error",
				"error_message": err.Error(),
			})
		}

		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	logger.Debug().Msg("health check passed")
	return nil
}
