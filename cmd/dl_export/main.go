package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/trec-hunter/internal/dataset"
	"github.com/DjordjeVuckovic/trec-hunter/internal/export/factory"
	"github.com/DjordjeVuckovic/trec-hunter/internal/registry/local"
	"github.com/google/uuid"
)

func main() {
	appSettings := NewAppConfig()

	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg, err := local.NewRegistryFromDir(cfg.DataHome)
	if err != nil {
		slog.Error("failed to open data home", "error", err)
		os.Exit(1)
	}

	adapter, err := dataset.New(reg, cfg.Year, cfg.Mode)
	if err != nil {
		slog.Error("failed to create dataset adapter", "error", err)
		os.Exit(1)
	}

	storer, err := factory.NewStorer(ctx, &cfg.StorageConfig)
	if err != nil {
		slog.Error("failed to create storer", "error", err)
		os.Exit(1)
	}

	bundle := adapter.Load(ctx, cfg.Limit)
	if len(bundle.Qrels) == 0 {
		slog.Error("dataset load produced no qrels, nothing to export", "dataset", adapter.Name())
		os.Exit(1)
	}

	table, err := dataset.Flatten(bundle)
	if err != nil {
		slog.Error("failed to flatten dataset", "error", err)
		os.Exit(1)
	}

	runID := uuid.New().String()
	if err := storer.SaveBulk(ctx, runID, table.Rows); err != nil {
		slog.Error("failed to export rows", "error", err, "run_id", runID)
		os.Exit(1)
	}

	slog.Info("export finished",
		"dataset", adapter.Name(),
		"run_id", runID,
		"rows", len(table.Rows))
}
