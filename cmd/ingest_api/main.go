// Package main Client Ingest API
// @title Client Ingest API
// @version 1.0
// @description Streams pipe-delimited client files into storage with checkpointed, resumable batches.
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/DjordjeVuckovic/client-ingest/docs"
	"github.com/DjordjeVuckovic/client-ingest/internal/metrics"
	"github.com/DjordjeVuckovic/client-ingest/internal/router"
	"github.com/DjordjeVuckovic/client-ingest/internal/server"
	"github.com/DjordjeVuckovic/client-ingest/internal/storage/factory"
	"github.com/DjordjeVuckovic/client-ingest/pkg/logging"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	closeLog := logging.SetupEnv()
	defer closeLog()

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ingestMetrics := metrics.NewIngest(registry)

	// storage comes first so its health check can back /health
	store, err := factory.NewStorage(context.Background(), cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	s := server.New(sCfg, store.HealthChecker).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupMetrics("/metrics", registry).
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Client Ingest API is running")
	})

	ingestRouter := router.NewIngestRouter(s.Echo, s.Context(), cfg.Pipeline, store.Storer, router.WithMetrics(ingestMetrics))
	ingestRouter.Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
