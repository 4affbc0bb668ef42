package middleware

import (
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/newsletter-signup/internal/server"
)

// Middlewares groups the middleware components so the router gets them
// from one place.
type Middlewares struct {
	Global          *GlobalMiddlewares
	ContextEnhancer *ContextEnhancer
	Tracing         *TracingMiddleware
}

// NewMiddlewares builds every middleware component. Tracing degrades to
// no-ops when New Relic is disabled.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
	}
}
