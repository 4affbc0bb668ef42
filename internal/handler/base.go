package handler

import (
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/newsletter-signup/internal/middleware"
	"github.com/deppfellow/newsletter-signup/internal/server"
	"github.com/deppfellow/newsletter-signup/internal/validation"
)

// Handler holds the shared dependencies embedded by concrete handlers.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint receiving a bound form payload.
// Req is a pointer type so BindForm can populate it.
type HandlerFunc[Req validation.FormBindable, Res any] func(c echo.Context, req Req) (Res, error)

// ResponseHandler writes a successful handler result.
type ResponseHandler interface {
	Handle(c echo.Context, result any) error

	// GetOperation names the handler kind in logs.
	GetOperation() string

	AddAttributes(txn *newrelic.Transaction, result any)
}

// RedirectResponseHandler answers with a redirect to the *url.URL returned
// by the handler. No body is written.
type RedirectResponseHandler struct {
	status int
}

func (h RedirectResponseHandler) Handle(c echo.Context, result any) error {
	location := result.(*url.URL)
	c.Response().Header().Set(echo.HeaderLocation, location.String())
	return c.NoContent(h.status)
}

func (h RedirectResponseHandler) GetOperation() string {
	return "handler_redirect"
}

func (h RedirectResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	// The Location carries the submitted address, so only its status is recorded.
	if txn != nil {
		txn.AddAttribute("redirect.status", h.status)
	}
}

// handleRequest is the pipeline shared by every form endpoint: bind, run
// the handler, log, trace, write the response.
//
// Form decoding is lenient. A malformed body is logged and the handler
// runs with whatever pairs were decoded.
func handleRequest[Req validation.FormBindable](
	c echo.Context,
	newReq func() Req,
	handler func(c echo.Context, req Req) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	req := newReq()
	if err := validation.BindForm(c.Request(), req); err != nil {
		logger.Warn().Err(err).Msg("form body only partially decoded")
		if txn != nil {
			txn.AddAttribute("form.decode", "partial")
		}
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Debug().
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed")

	return responseHandler.Handle(c, result)
}

// HandleRedirect wraps a form endpoint that answers with a redirect.
// newReq returns a fresh payload for every request.
//
//	router.POST("/subscribe", handler.HandleRedirect(h, h.Subscribe, http.StatusSeeOther, newSubscribeRequest))
func HandleRedirect[Req validation.FormBindable](
	h Handler,
	handler HandlerFunc[Req, *url.URL],
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq, func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, RedirectResponseHandler{status: status})
	}
}
