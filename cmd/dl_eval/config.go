package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/trec-hunter/internal/dataset"
	"github.com/DjordjeVuckovic/trec-hunter/internal/eval"
	"github.com/DjordjeVuckovic/trec-hunter/pkg/config/env"
	"github.com/DjordjeVuckovic/trec-hunter/pkg/stringsutil"
)

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

type EvalConfig struct {
	DataHome string
	Year     int
	Mode     dataset.Mode
	RunPath  string
	Metrics  eval.Config
}

func (as *AppConfig) Load() (*EvalConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/dl_eval/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	dataHome := os.Getenv("TREC_DATA_HOME")
	if dataHome == "" {
		slog.Error("TREC_DATA_HOME environment variable is not set")
		return nil, fmt.Errorf("TREC_DATA_HOME environment variable is not set")
	}

	runPath := os.Getenv("TREC_RUN_PATH")
	if runPath == "" {
		slog.Error("TREC_RUN_PATH environment variable is not set")
		return nil, fmt.Errorf("TREC_RUN_PATH environment variable is not set")
	}

	year, err := strconv.Atoi(os.Getenv("TREC_YEAR"))
	if err != nil {
		year = 2020
	}

	mode := dataset.Mode(os.Getenv("TREC_MODE"))
	if mode == "" {
		mode = dataset.ModePassage
	}

	metrics := eval.DefaultConfig()
	if raw := os.Getenv("EVAL_K_VALUES"); raw != "" {
		var ks []int
		for _, part := range stringsutil.RemoveEmptyStrings(strings.Split(raw, ",")) {
			k, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("invalid EVAL_K_VALUES entry %q", part)
			}
			ks = append(ks, k)
		}
		metrics.KValues = ks
	}
	if raw := os.Getenv("EVAL_RELEVANCE_THRESHOLD"); raw != "" {
		threshold, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid EVAL_RELEVANCE_THRESHOLD %q", raw)
		}
		metrics.RelevanceThreshold = threshold
	}

	return &EvalConfig{
		DataHome: dataHome,
		Year:     year,
		Mode:     mode,
		RunPath:  runPath,
		Metrics:  metrics,
	}, nil
}
