package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/DjordjeVuckovic/kernsecbench/internal/analysis"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/aggregate"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/parse"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/report"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/spec"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bootlog"
	"github.com/DjordjeVuckovic/kernsecbench/internal/storage"
	"github.com/DjordjeVuckovic/kernsecbench/internal/storage/factory"
	"github.com/DjordjeVuckovic/kernsecbench/pkg/config/env"
)

const reportFile = "report.json"

func main() {
	cfg := parseFlags()
	if cfg.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	if err := cfg.validate(); err != nil {
		slog.Error("Invalid arguments", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cfg.Mode {
	case "analyze":
		runAnalyze(ctx, cfg)
	case "parse":
		runParse(cfg)
	}
}

func runAnalyze(ctx context.Context, cfg cliConfig) {
	as, err := spec.LoadFromFile(cfg.SpecPath)
	if err != nil {
		slog.Error("Failed to load spec", "path", cfg.SpecPath, "error", err)
		os.Exit(1)
	}
	if cfg.Output != "" {
		as.Output.Dir = cfg.Output
	}
	if cfg.Workers > 0 {
		as.Workers = cfg.Workers
	}

	inputs := make([]analysis.RunInput, 0, len(as.Runs))
	for _, run := range as.Runs {
		in, err := analysis.LoadRunInput(run.Name, run.LogDir, as.LogPattern, as.Exclude)
		if err != nil {
			slog.Error("Failed to load run logs", "run", run.Name, "dir", run.LogDir, "error", err)
			os.Exit(1)
		}
		slog.Info("Run logs discovered", "run", run.Name, "logs", len(in.Logs))
		inputs = append(inputs, in)
	}

	res, err := analysis.FromSpec(as).Analyze(ctx, inputs)
	if res == nil {
		slog.Error("Analysis failed", "error", err)
		os.Exit(1)
	}
	if err != nil {
		for _, e := range res.Errors {
			slog.Warn("Stage failed", "error", e)
		}
	}

	if err := analysis.WriteTables(res, as.Output.Dir); err != nil {
		slog.Error("Failed to write tables", "error", err)
		os.Exit(1)
	}

	if cfg.Store {
		if err := store(ctx, res); err != nil {
			slog.Error("Failed to store rows", "error", err)
			os.Exit(1)
		}
	}

	rpt := report.Generate(res, report.Options{Baseline: as.Baseline, DisplayNames: as.DisplayNames()})
	report.WriteTable(rpt, os.Stdout)

	reportPath := filepath.Join(as.Output.Dir, reportFile)
	if err := report.WriteJSON(rpt, reportPath); err != nil {
		slog.Error("Failed to write JSON report", "error", err)
		os.Exit(1)
	}
	slog.Info("Report written", "path", reportPath)
}

func store(ctx context.Context, res *analysis.Result) error {
	if err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/kernsecbench/.env"); err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}
	sCfg, err := factory.LoadEnv()
	if err != nil {
		return err
	}
	storer, closeFn, err := factory.NewStorer(ctx, sCfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := storage.SaveAll(ctx, storer, res.ID, res.ScalarRows, res.StreamRows); err != nil {
		return err
	}
	slog.Info("Rows stored", "storage", sCfg.Type, "analysis_id", res.ID)
	return nil
}

func runParse(cfg cliConfig) {
	doc, err := bootlog.LoadFile(cfg.LogPath)
	if err != nil {
		slog.Error("Failed to load boot log", "path", cfg.LogPath, "error", err)
		os.Exit(1)
	}

	lines := doc.Lines
	if cfg.TestOnly {
		lines, err = doc.TestLines()
		if err != nil {
			slog.Error("Failed to slice test section", "error", err)
			os.Exit(1)
		}
	}

	extractor := analysis.NewExtractor(parse.New(parse.DefaultConfig()), aggregate.DefaultReducer())
	ex, err := extractor.Extract(lines)
	if ex == nil {
		slog.Error("Failed to extract benchmark results", "path", cfg.LogPath, "error", err)
		os.Exit(1)
	}
	if err != nil {
		slog.Warn("Partial extraction", "error", err)
	}

	out := struct {
		Source     string                 `json:"source"`
		Extraction *analysis.Extraction   `json:"extraction"`
		KeyFigures []aggregate.KeyFigures `json:"key_figures"`
	}{
		Source:     filepath.Base(cfg.LogPath),
		Extraction: ex,
		KeyFigures: aggregate.StreamKeyFigures(ex.Streams),
	}

	w := os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			slog.Error("Failed to create output", "path", cfg.Output, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		slog.Error("Failed to write extraction", "error", err)
		os.Exit(1)
	}
}
