package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/newsletter-signup/internal/server"
)

// TracingMiddleware installs New Relic transactions. With New Relic
// disabled (nil nrApp) both middlewares pass requests straight through.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{server: s, nrApp: nrApp}
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc {
	return next
}

// NewRelicMiddleware starts one transaction per request; later middleware
// reads it back with newrelic.FromContext.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return passThrough
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing tags the transaction with request metadata and the final
// status, and notices any error a handler returns.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return passThrough
	}

	env := tm.server.Config.Primary.Env

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			txn.AddAttribute("service.env", env)
			txn.AddAttribute("http.real_ip", c.RealIP())
			txn.AddAttribute("http.user_agent", c.Request().UserAgent())
			if id := GetRequestID(c); id != "" {
				txn.AddAttribute("request.id", id)
			}

			err := next(c)
			if err != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}
			txn.AddAttribute("http.status_code", c.Response().Status)

			return err
		}
	}
}
