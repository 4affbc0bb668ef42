// Package server defines the Server container that holds the app's shared
// dependencies, plus the HTTP server lifecycle.
//
// It owns:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the outbound HTTP client shared by provider clients
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deppfellow/newsletter-signup/internal/config"
	loggerPkg "github.com/deppfellow/newsletter-signup/internal/logger"
)

// Server is the application container. It is not the HTTP server itself.
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService holds the New Relic application. nrApp is nil when
	// New Relic is disabled.
	LoggerService *loggerPkg.LoggerService

	// HTTPClient is used for every call to the challenge, mail and list
	// providers. With New Relic enabled each call is recorded as an
	// external segment of the request transaction.
	HTTPClient *http.Client

	httpServer *http.Server
}

// New constructs a Server. It does not start listening; see SetupHTTPServer
// and Start.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *Server {
	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		HTTPClient:    newProviderClient(cfg, loggerService),
	}
}

func newProviderClient(cfg *config.Config, loggerService *loggerPkg.LoggerService) *http.Client {
	var transport http.RoundTripper = http.DefaultTransport
	if loggerService != nil && loggerService.GetApplication() != nil {
		transport = newrelic.NewRoundTripper(transport)
	}

	return &http.Client{
		Transport: transport,
		// The service applies the same bound per call through the request
		// context; this catches anything that bypasses it.
		Timeout: cfg.Providers.Timeout,
	}
}

// SetupHTTPServer configures the net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Config stores whole seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP until the server is shut down. It returns
// http.ErrServerClosed after a graceful Shutdown.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("mail_provider", s.Config.Mail.Provider).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections, waits for in-flight requests until
// ctx is done, then flushes New Relic.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.LoggerService != nil {
		s.LoggerService.Shutdown()
	}

	return nil
}
