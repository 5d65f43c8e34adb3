// Command web serves the built travel planner app and its allergy warnings API.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/hluleko/smart-travel-planner/internal/activity"
	"github.com/hluleko/smart-travel-planner/internal/adapter/backend"
	"github.com/hluleko/smart-travel-planner/internal/adapter/httpadapter"
	kafkaadapter "github.com/hluleko/smart-travel-planner/internal/adapter/kafka"
	"github.com/hluleko/smart-travel-planner/internal/config"
	"github.com/hluleko/smart-travel-planner/internal/domain"
	"github.com/hluleko/smart-travel-planner/internal/observability"
	"github.com/hluleko/smart-travel-planner/internal/routes"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, metrics, logger)

	// Activity sink (ACTIVITY_SINK=none|backend|kafka).
	var (
		recorder httpadapter.ActivityRecorder
		writer   *kafkaadapter.Writer
	)
	switch cfg.ActivitySink {
	case config.ActivitySinkBackend:
		recorder = activity.NewMetered(cfg.ActivitySink, client, metrics, logger)
	case config.ActivitySinkKafka:
		writer = kafkaadapter.NewWriter(cfg, logger)
		recorder = activity.NewMetered(cfg.ActivitySink, writer, metrics, logger)
	}
	logger.Info("activity sink configured", "sink", cfg.ActivitySink)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Files:     os.DirFS(cfg.DistDir),
		BasePath:  cfg.BasePath,
		Views:     routes.NewTable(cfg.BasePath),
		Generator: domain.NewSeededGenerator(cfg.WarningSeed, clock),
		Allergies: client,
		Activity:  recorder,
		Metrics:   metrics,
		Clock:     clock,

		Destinations: backend.NewCachedDestinations(client, cfg.DestinationCacheSize, metrics),
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()
	logger.Info("serving content", "dist_dir", cfg.DistDir, "backend_url", cfg.BackendURL)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
