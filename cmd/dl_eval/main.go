package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/trec-hunter/internal/dataset"
	"github.com/DjordjeVuckovic/trec-hunter/internal/eval"
	"github.com/DjordjeVuckovic/trec-hunter/internal/registry/local"
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

	run, err := eval.LoadRunFile(cfg.RunPath)
	if err != nil {
		slog.Error("failed to load run file", "error", err)
		os.Exit(1)
	}

	bundle := adapter.Load(ctx, 0)
	if len(bundle.Qrels) == 0 {
		slog.Error("dataset load produced no qrels", "dataset", adapter.Name())
		os.Exit(1)
	}

	report := eval.Evaluate(run, bundle.Qrels, cfg.Metrics)
	report.WriteTable(os.Stdout)
}
