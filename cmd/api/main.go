// Command api runs the agreements HTTP API and its background workers.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jarolccis/agreements-core-api/internal/config"
	"github.com/Jarolccis/agreements-core-api/internal/database"
	"github.com/Jarolccis/agreements-core-api/internal/handler"
	"github.com/Jarolccis/agreements-core-api/internal/lib/job"
	"github.com/Jarolccis/agreements-core-api/internal/logger"
	"github.com/Jarolccis/agreements-core-api/internal/middleware"
	"github.com/Jarolccis/agreements-core-api/internal/repository"
	"github.com/Jarolccis/agreements-core-api/internal/router"
	"github.com/Jarolccis/agreements-core-api/internal/server"
	"github.com/Jarolccis/agreements-core-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 15 * time.Second

func main() {
	bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	loggerService, err := logger.NewLoggerService(cfg, &bootLog)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	log := logger.New(cfg, loggerService)

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := database.Migrate(migrateCtx, &log, cfg); err != nil {
		cancelMigrate()
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}
	cancelMigrate()

	s, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(s)
	services, err := service.NewServices(s, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}

	mux := job.NewMux(&log, services.BulkUpload)
	if err := s.Job.Start(mux); err != nil {
		log.Fatal().Err(err).Msg("failed to start job workers")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	m := middleware.NewMiddlewares(s)
	h := handler.NewHandlers(s, services)
	router.Setup(e, m, h)

	s.SetupHTTPServer(e)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("server stopped unexpectedly")
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	loggerService.Shutdown(5 * time.Second)

	log.Info().Msg("server stopped")
}
