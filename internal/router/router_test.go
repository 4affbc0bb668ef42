package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/deppfellow/newsletter-signup/internal/config"
	"github.com/deppfellow/newsletter-signup/internal/handler"
	"github.com/deppfellow/newsletter-signup/internal/middleware"
	"github.com/deppfellow/newsletter-signup/internal/server"
	"github.com/deppfellow/newsletter-signup/internal/service"
)

type stubSubscriber struct {
	location *url.URL
}

func (s stubSubscriber) Subscribe(context.Context, *service.Submission) *service.Result {
	return &service.Result{Location: s.location}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := zerolog.Nop()
	s := &server.Server{Config: config.DefaultConfig(), Logger: &logger}

	loc, _ := url.Parse("https://site.example/thanks?email=a%40b.c")
	h := &handler.Handlers{
		Health:    handler.NewHealthHandler(s),
		Subscribe: handler.NewSubscribeHandler(s, stubSubscriber{location: loc}),
	}

	return NewRouter(s, h)
}

func TestRouter_Subscribe(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscribe", strings.NewReader("email=a%40b.c"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status=%d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://site.example/thanks?email=a%40b.c" {
		t.Fatalf("Location=%q", loc)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatalf("missing request id header")
	}
}

func TestRouter_RequestIDIsPropagated(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get(middleware.RequestIDHeader); got != "req-42" {
		t.Fatalf("request id=%q, want req-42", got)
	}
}

func TestRouter_Status(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if gjson.Get(rec.Body.String(), "status").String() != "healthy" {
		t.Fatalf("body=%s", rec.Body.String())
	}
}

func TestRouter_NotFound(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", rec.Code)
	}
	body := rec.Body.String()
	if gjson.Get(body, "code").String() != "NOT_FOUND" || gjson.Get(body, "message").String() != "Route not found" {
		t.Fatalf("body=%s", body)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/subscribe", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d, want 405", rec.Code)
	}
	if gjson.Get(rec.Body.String(), "code").String() != "METHOD_NOT_ALLOWED" {
		t.Fatalf("body=%s", rec.Body.String())
	}
}
