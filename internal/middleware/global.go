package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/newsletter-signup/internal/errs"
	"github.com/deppfellow/newsletter-signup/internal/server"
)

// GlobalMiddlewares groups the middleware applied to every route and the
// global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS allows the configured origins. The signup form itself is a plain
// HTML form post and does not need it; scripted clients do.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	})
}

// RequestLogger writes one "API" line per request, level by status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			// The global error handler has not written the response yet when a
			// handler returns an error, so derive the status from the error.
			// See https://github.com/labstack/echo/issues/2310
			statusCode := v.Status
			if v.Error != nil {
				statusCode = statusOf(v.Error)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			// Only the path is logged: the redirect query of a signup carries
			// the submitted address.
			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri_path", v.URIPath).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

func statusOf(err error) int {
	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status
	case errors.As(err, &echoErr):
		return echoErr.Code
	default:
		return http.StatusInternalServerError
	}
}

func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler turns any error that reaches echo into an HTTPError
// JSON body. The subscribe route never gets here: it always redirects.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	originalErr := err

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		var echoErr *echo.HTTPError
		switch {
		case errors.As(err, &echoErr) && echoErr.Code == http.StatusNotFound:
			httpErr = errs.NewNotFoundError("Route not found", false)
		case errors.As(err, &echoErr):
			httpErr = &errs.HTTPError{
				Code:    errs.StatusCode(echoErr.Code),
				Message: echoMessage(echoErr),
				Status:  echoErr.Code,
			}
		default:
			httpErr = errs.NewInternalServerError()
		}
	}

	logger := GetLogger(c)

	event := logger.Error()
	if httpErr.Status < http.StatusInternalServerError {
		event = logger.Warn()
	}
	event.Stack().
		Err(originalErr).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(httpErr.Status)
		return
	}

	_ = c.JSON(httpErr.Status, errs.HTTPError{
		Code:     httpErr.Code,
		Message:  httpErr.Message,
		Status:   httpErr.Status,
		Override: httpErr.Override,
		Errors:   httpErr.Errors,
	})
}

func echoMessage(echoErr *echo.HTTPError) string {
	if msg, ok := echoErr.Message.(string); ok && strings.TrimSpace(msg) != "" {
		return msg
	}
	return http.StatusText(echoErr.Code)
}
