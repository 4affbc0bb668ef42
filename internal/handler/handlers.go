package handler

import (
	"github.com/deppfellow/newsletter-signup/internal/server"
	"github.com/deppfellow/newsletter-signup/internal/service"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Health    *HealthHandler
	Subscribe *SubscribeHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s),
		Subscribe: NewSubscribeHandler(s, services.Subscribe),
	}
}
