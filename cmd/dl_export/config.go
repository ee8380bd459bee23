package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/trec-hunter/internal/dataset"
	"github.com/DjordjeVuckovic/trec-hunter/internal/export/factory"
	"github.com/DjordjeVuckovic/trec-hunter/pkg/config/env"
)

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

type ExportConfig struct {
	DataHome string
	Year     int
	Mode     dataset.Mode
	Limit    int
	factory.StorageConfig
}

func (as *AppConfig) Load() (*ExportConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/dl_export/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	dataHome := os.Getenv("TREC_DATA_HOME")
	if dataHome == "" {
		slog.Error("TREC_DATA_HOME environment variable is not set")
		return nil, fmt.Errorf("TREC_DATA_HOME environment variable is not set")
	}

	year, err := strconv.Atoi(os.Getenv("TREC_YEAR"))
	if err != nil {
		year = 2020
	}

	mode := dataset.Mode(os.Getenv("TREC_MODE"))
	if mode == "" {
		mode = dataset.ModePassage
	}

	limit, err := strconv.Atoi(os.Getenv("TREC_QUERY_LIMIT"))
	if err != nil {
		limit = 0
	}

	return &ExportConfig{
		DataHome:      dataHome,
		Year:          year,
		Mode:          mode,
		Limit:         limit,
		StorageConfig: *storageCfg,
	}, nil
}
