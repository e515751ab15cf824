package main

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/client-ingest/internal/processor"
	"github.com/DjordjeVuckovic/client-ingest/internal/storage/factory"
	"github.com/DjordjeVuckovic/client-ingest/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("APP_ENV"),
	}
}

type IngestApiConfig struct {
	StorageConfig factory.StorageConfig
	Pipeline      *processor.Config
}

func (as *AppConfig) Load() (*IngestApiConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/ingest_api/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	pipelineCfg, err := processor.LoadEnv()
	if err != nil {
		slog.Error("Failed to load pipeline configuration from environment", "error", err)
		return nil, err
	}

	return &IngestApiConfig{
		StorageConfig: *storageCfg,
		Pipeline:      pipelineCfg,
	}, nil
}
