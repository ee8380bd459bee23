package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/trec-hunter/internal/registry/local"
	"github.com/DjordjeVuckovic/trec-hunter/internal/router"
	"github.com/DjordjeVuckovic/trec-hunter/internal/server"
	"github.com/labstack/echo/v4"
)

func main() {
	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dataHome := os.Getenv("TREC_DATA_HOME")
	if dataHome == "" {
		slog.Error("TREC_DATA_HOME environment variable is not set")
		os.Exit(1)
	}

	reg, err := local.NewRegistryFromDir(dataHome)
	if err != nil {
		slog.Error("failed to open data home", "error", err)
		os.Exit(1)
	}

	e := echo.New()
	s := server.NewServer(e, sCfg)

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, fmt.Sprintf("TREC DL preview API is running (%d datasets)", len(reg.Identifiers())))
	})

	datasetRouter := router.NewDatasetRouter(s.Echo, reg)
	datasetRouter.Bind()

	if err := s.Start(); err != nil {
		s.Echo.Logger.Error("failed to start server: ", err)
		os.Exit(1)
	}
}
