package router

import (
	"fmt"
	"net/http"

	"github.com/DjordjeVuckovic/kernsecbench/internal/analysis"
	"github.com/DjordjeVuckovic/kernsecbench/internal/apperr"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/report"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bootlog"
	"github.com/DjordjeVuckovic/kernsecbench/internal/domain"
	"github.com/DjordjeVuckovic/kernsecbench/internal/storage"
	"github.com/labstack/echo/v4"
)

type AnalysisRouter struct {
	e         *echo.Echo
	extractor *analysis.Extractor
	pipeline  *analysis.Pipeline
	storer    storage.Storer
}

func NewAnalysisRouter(e *echo.Echo, extractor *analysis.Extractor, pipeline *analysis.Pipeline, storer storage.Storer) *AnalysisRouter {
	return &AnalysisRouter{
		e:         e,
		extractor: extractor,
		pipeline:  pipeline,
		storer:    storer,
	}
}

func (r *AnalysisRouter) Bind() {
	g := r.e.Group("/api/v1")
	g.POST("/logs/parse", r.parseLogHandler)
	g.POST("/analyses", r.analyzeHandler)
}

type ParseLogResponse struct {
	Run      string                 `json:"run,omitempty"`
	Readings []domain.MetricReading `json:"readings"`
	Streams  domain.Streams         `json:"streams"`
}

// parseLogHandler extracts one boot log. With ?scope=test only the lines of
// the marked test section are scanned.
func (r *AnalysisRouter) parseLogHandler(c echo.Context) error {
	var doc bootlog.Document
	if err := c.Bind(&doc); err != nil {
		return apperr.NewValidationWrap("invalid boot log document", err)
	}

	lines := doc.Lines
	if c.QueryParam("scope") == "test" {
		tl, err := doc.TestLines()
		if err != nil {
			return apperr.NewValidationWrap("invalid test marker", err)
		}
		lines = tl
	}

	ex, err := r.extractor.Extract(lines)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ParseLogResponse{
		Run:      c.QueryParam("run"),
		Readings: ex.Readings,
		Streams:  ex.Streams.NonEmpty(),
	})
}

type AnalysisRequest struct {
	Baseline string       `json:"baseline"`
	Runs     []RunRequest `json:"runs"`
}

type RunRequest struct {
	Name        string             `json:"name"`
	DisplayName string             `json:"display_name,omitempty"`
	Documents   []bootlog.Document `json:"documents"`
}

func (req *AnalysisRequest) validate() error {
	if len(req.Runs) == 0 {
		return apperr.NewValidation("request has no runs")
	}
	seen := make(map[string]bool, len(req.Runs))
	for i, run := range req.Runs {
		if run.Name == "" {
			return apperr.NewValidation(fmt.Sprintf("run at index %d has no name", i))
		}
		if seen[run.Name] {
			return apperr.NewValidation(fmt.Sprintf("duplicate run %q", run.Name))
		}
		seen[run.Name] = true
	}
	if req.Baseline != "" && !seen[req.Baseline] {
		return apperr.NewValidation(fmt.Sprintf("baseline references unknown run %q", req.Baseline))
	}
	return nil
}

func (req *AnalysisRequest) inputs() ([]analysis.RunInput, map[string]string) {
	inputs := make([]analysis.RunInput, 0, len(req.Runs))
	names := make(map[string]string)
	for _, run := range req.Runs {
		in := analysis.RunInput{Name: run.Name}
		for i, doc := range run.Documents {
			in.Logs = append(in.Logs, analysis.LogInput{Source: fmt.Sprintf("document_%d", i), Lines: doc.Lines})
		}
		inputs = append(inputs, in)
		if run.DisplayName != "" {
			names[run.Name] = run.DisplayName
		}
	}
	return inputs, names
}

// analyzeHandler runs a full pass over the posted runs, stores the tidy rows
// and answers with the report. Stage failures are listed in the report.
func (r *AnalysisRouter) analyzeHandler(c echo.Context) error {
	var req AnalysisRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid analysis request", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	ctx := c.Request().Context()
	inputs, names := req.inputs()

	res, err := r.pipeline.WithBaseline(req.Baseline).Analyze(ctx, inputs)
	if res == nil {
		return err
	}

	if err := storage.SaveAll(ctx, r.storer, res.ID, res.ScalarRows, res.StreamRows); err != nil {
		return fmt.Errorf("store result rows: %w", err)
	}

	rep := report.Generate(res, report.Options{Baseline: req.Baseline, DisplayNames: names})
	return c.JSON(http.StatusOK, rep)
}
