package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/newsletter-signup/internal/server"
	"github.com/deppfellow/newsletter-signup/internal/service"
)

// Form field names posted by the signup form.
const (
	FieldEmail     = "email"
	FieldChallenge = "g-recaptcha-response"
	FieldHref      = "href"
	FieldReferrer  = "referrer"
)

// SubscribeRequest is the signup form.
type SubscribeRequest struct {
	Email     string
	Challenge string
	Href      string
	Referrer  string
}

func newSubscribeRequest() *SubscribeRequest {
	return &SubscribeRequest{}
}

// BindForm reads the form fields. Absent fields stay empty.
func (r *SubscribeRequest) BindForm(values url.Values) {
	r.Email = values.Get(FieldEmail)
	r.Challenge = values.Get(FieldChallenge)
	r.Href = values.Get(FieldHref)
	r.Referrer = values.Get(FieldReferrer)
}

// Subscriber runs the signup pipeline.
type Subscriber interface {
	Subscribe(ctx context.Context, sub *service.Submission) *service.Result
}

type SubscribeHandler struct {
	Handler
	subscriber Subscriber
}

func NewSubscribeHandler(s *server.Server, subscriber Subscriber) *SubscribeHandler {
	return &SubscribeHandler{
		Handler:    NewHandler(s),
		subscriber: subscriber,
	}
}

// Subscribe hands the form to the service and returns the redirect target.
// Every outcome, including failures, is a redirect.
func (h *SubscribeHandler) Subscribe(c echo.Context, req *SubscribeRequest) (*url.URL, error) {
	result := h.subscriber.Subscribe(c.Request().Context(), &service.Submission{
		Email:    req.Email,
		Token:    req.Challenge,
		Href:     req.Href,
		Referrer: req.Referrer,
		RemoteIP: c.RealIP(),
	})
	return result.Location, nil
}

// Route returns the echo handler for the subscribe endpoint.
func (h *SubscribeHandler) Route() echo.HandlerFunc {
	return HandleRedirect[*SubscribeRequest](h.Handler, h.Subscribe, http.StatusSeeOther, newSubscribeRequest)
}
