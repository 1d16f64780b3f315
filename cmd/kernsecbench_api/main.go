package main

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/DjordjeVuckovic/kernsecbench/internal/analysis"
	"github.com/DjordjeVuckovic/kernsecbench/internal/api/router"
	"github.com/DjordjeVuckovic/kernsecbench/internal/api/server"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/aggregate"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/fit"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/parse"
	"github.com/DjordjeVuckovic/kernsecbench/internal/storage/factory"
	pkgserver "github.com/DjordjeVuckovic/kernsecbench/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	healthChecker := pkgserver.NewOkHealthChecker()

	s := server.New(sCfg, healthChecker).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "kernsecbench API is running")
	})

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration", "error", err)
		os.Exit(1)
	}

	storer, closeStorer, err := factory.NewStorer(s.Context(), storageCfg)
	if err != nil {
		slog.Error("Failed to create storer", "error", err)
		os.Exit(1)
	}
	defer closeStorer()

	extractor := analysis.NewExtractor(parse.New(parse.DefaultConfig()), aggregate.DefaultReducer())
	pipeline := analysis.New(extractor, fit.NewFitter(), analysis.Options{Workers: runtime.NumCPU()})

	router.NewAnalysisRouter(s.Echo, extractor, pipeline, storer).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
