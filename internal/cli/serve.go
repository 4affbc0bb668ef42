package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deppfellow/newsletter-signup/internal/config"
	"github.com/deppfellow/newsletter-signup/internal/handler"
	"github.com/deppfellow/newsletter-signup/internal/logger"
	"github.com/deppfellow/newsletter-signup/internal/router"
	"github.com/deppfellow/newsletter-signup/internal/server"
	"github.com/deppfellow/newsletter-signup/internal/service"
)

const defaultShutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP server.",
	Long:  "Starts the HTTP server and blocks until SIGINT or SIGTERM, then drains in-flight requests.",
	RunE: func(cmd *cobra.Command, args []string) error {
		shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")
		return serve(cmd.Context(), shutdownTimeout)
	},
}

func init() {
	serveCmd.Flags().Duration("shutdown-timeout", defaultShutdownTimeout, "How long to wait for in-flight requests on shutdown")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, shutdownTimeout time.Duration) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv := server.New(cfg, &log, loggerService)

	services, err := service.NewServices(srv)
	if err != nil {
		loggerService.Shutdown()
		return err
	}

	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		loggerService.Shutdown()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		log.Error().Err(err).Msg("server stopped")
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", shutdownTimeout).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited")
	return nil
}
