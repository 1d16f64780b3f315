package analysis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/kernsecbench/internal/apperr"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/aggregate"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/fit"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/parse"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/spec"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/table"
	"github.com/DjordjeVuckovic/kernsecbench/internal/domain"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// LogInput is one boot log of a run, already split into lines.
type LogInput struct {
	Source string   `json:"source"`
	Lines  []string `json:"lines"`
}

type RunInput struct {
	Name string     `json:"name"`
	Logs []LogInput `json:"logs"`
}

type Options struct {
	Baseline   string
	FitStreams []string
	Workers    int
	// DumpDir enables section copies when set.
	DumpDir string
}

type Pipeline struct {
	extractor *Extractor
	fitter    fit.Fitter
	opts      Options
}

func New(extractor *Extractor, fitter fit.Fitter, opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Pipeline{extractor: extractor, fitter: fitter, opts: opts}
}

// WithBaseline returns a copy of p comparing against baseline.
func (p *Pipeline) WithBaseline(baseline string) *Pipeline {
	cp := *p
	cp.opts.Baseline = baseline
	return &cp
}

// FromSpec wires a pipeline with the thresholds and tables of an analysis
// spec.
func FromSpec(s *spec.AnalysisSpec) *Pipeline {
	cfg := parse.DefaultConfig()
	cfg.Advance = s.Advance

	reducer := aggregate.DefaultReducer()
	reducer.MinX, reducer.MaxX = s.Reduce.MinX, s.Reduce.MaxX

	opts := Options{
		Baseline:   s.Baseline,
		FitStreams: s.Fit.Streams,
		Workers:    s.Workers,
	}
	if s.Output.DumpSections {
		opts.DumpDir = s.Output.Dir
	}

	return New(
		NewExtractor(parse.New(cfg), reducer),
		fit.Fitter{MinPoints: s.Fit.MinPoints, MinR2: s.Fit.MinR2},
		opts,
	)
}

type StreamFit struct {
	Stream   string            `json:"stream"`
	Fits     []fit.FitResult   `json:"fits"`
	Averaged []fit.AveragedFit `json:"averaged"`
}

type RunKeyFigures struct {
	Run     string                 `json:"run"`
	Figures []aggregate.KeyFigures `json:"figures"`
}

// Result holds every table derived from one analysis pass. Errors lists the
// stage failures that were skipped over.
type Result struct {
	ID          string                   `json:"id"`
	CreatedAt   time.Time                `json:"created_at"`
	Runs        []domain.Run             `json:"-"`
	Aggregates  []aggregate.RunAggregate `json:"aggregates"`
	Comparisons []aggregate.Comparison   `json:"comparisons,omitempty"`
	ScalarRows  []table.ScalarRow        `json:"-"`
	StreamRows  []table.StreamRow        `json:"-"`
	Grid        table.WideGrid           `json:"wide_grid"`
	Fits        []StreamFit              `json:"fits"`
	KeyFigures  []RunKeyFigures          `json:"key_figures"`
	Errors      []error                  `json:"-"`
}

type runOutcome struct {
	run  domain.Run
	agg  *aggregate.RunAggregate
	errs []error
}

// Analyze extracts, aggregates and fits every run. Runs are processed
// concurrently but results keep input order. Failures confined to one log,
// run or stream are collected as *apperr.StageError values, returned joined
// next to the partial result. Only context cancellation aborts the pass.
func (p *Pipeline) Analyze(ctx context.Context, inputs []RunInput) (*Result, error) {
	outcomes := make([]runOutcome, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, in := range inputs {
		g.Go(func() error {
			out, err := p.processRun(gctx, in)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	for _, o := range outcomes {
		res.Runs = append(res.Runs, o.run)
		if o.agg != nil {
			res.Aggregates = append(res.Aggregates, *o.agg)
		}
		res.Errors = append(res.Errors, o.errs...)
	}

	res.ScalarRows = table.BuildScalarRows(res.Runs)
	res.StreamRows = table.BuildStreamRows(res.Runs)
	res.Grid = table.BuildWideGrid(res.StreamRows)
	res.KeyFigures = keyFigures(res.Grid, res.StreamRows)

	fits, err := p.fitStreams(ctx, res.StreamRows)
	if err != nil {
		return nil, err
	}
	res.Fits = fits

	if p.opts.Baseline != "" {
		res.Comparisons = aggregate.CompareToBaseline(res.Aggregates, p.opts.Baseline)
	}

	slog.Info("Analysis finished",
		"id", res.ID,
		"runs", len(res.Runs),
		"scalar_rows", len(res.ScalarRows),
		"stream_rows", len(res.StreamRows),
		"errors", len(res.Errors))

	return res, errors.Join(res.Errors...)
}

func (p *Pipeline) processRun(ctx context.Context, in RunInput) (runOutcome, error) {
	out := runOutcome{run: domain.Run{Name: in.Name}}

	for _, entry := range in.Logs {
		if err := ctx.Err(); err != nil {
			return runOutcome{}, err
		}

		ex, err := p.extractor.Extract(entry.Lines)
		if errors.Is(err, apperr.ErrNotFound) {
			slog.Warn("Log has no benchmark sections", "run", in.Name, "source", entry.Source)
			continue
		}
		if err != nil {
			out.errs = append(out.errs, apperr.NewStage("extract", in.Name, entry.Source, err))
			if ex == nil || ex.empty() {
				continue
			}
		}
		if ex.empty() {
			slog.Warn("Log yielded no data", "run", in.Name, "source", entry.Source)
			continue
		}

		index := len(out.run.Iterations)
		out.run.Iterations = append(out.run.Iterations, domain.Iteration{
			Index:    index,
			Source:   entry.Source,
			Readings: ex.Readings,
			Streams:  ex.Streams,
		})

		if p.opts.DumpDir != "" {
			if err := DumpSections(p.opts.DumpDir, in.Name, index, ex.Sections); err != nil {
				out.errs = append(out.errs, apperr.NewStage("dump", in.Name, entry.Source, err))
			}
		}
	}

	metrics, err := aggregate.AggregateRun(in.Name, out.run.ReadingLists())
	if err != nil {
		out.errs = append(out.errs, apperr.NewStage("aggregate", in.Name, "", err))
		return out, nil
	}
	out.agg = &aggregate.RunAggregate{Run: in.Name, Metrics: metrics}
	return out, nil
}

// fitStreams fits the configured streams, or every stream with two-column
// rows when none are configured.
func (p *Pipeline) fitStreams(ctx context.Context, rows []table.StreamRow) ([]StreamFit, error) {
	streams := p.opts.FitStreams
	if len(streams) == 0 {
		twoCol := lo.Filter(rows, func(r table.StreamRow, _ int) bool { return r.Z == nil })
		streams = lo.Uniq(lo.Map(twoCol, func(r table.StreamRow, _ int) string { return r.Stream }))
	}

	slots := make([]*StreamFit, len(streams))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, stream := range streams {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fits, err := p.fitter.FitStream(rows, stream)
			if err != nil {
				slog.Debug("Skipping fit", "stream", stream, "reason", err)
				return nil
			}
			slots[i] = &StreamFit{Stream: stream, Fits: fits, Averaged: fit.AverageFits(fits)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []StreamFit
	for _, s := range slots {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

type runStream struct {
	run    string
	stream string
}

// keyFigures derives per-run key figures from the cross-iteration means. Only
// (run, stream) pairs whose rows are all two-column qualify.
func keyFigures(grid table.WideGrid, rows []table.StreamRow) []RunKeyFigures {
	twoCol := make(map[runStream]bool)
	for _, r := range rows {
		k := runStream{run: r.Run, stream: r.Stream}
		prev, seen := twoCol[k]
		twoCol[k] = r.Z == nil && (!seen || prev)
	}
	grid = lo.Filter(grid, func(g table.GridRow, _ int) bool {
		return twoCol[runStream{run: g.Run, stream: g.Stream}]
	})

	var out []RunKeyFigures
	byRun := lo.GroupBy(grid, func(g table.GridRow) string { return g.Run })
	for _, run := range lo.Uniq(lo.Map(grid, func(g table.GridRow, _ int) string { return g.Run })) {
		var streams domain.Streams
		for _, g := range byRun[run] {
			if len(streams) == 0 || streams[len(streams)-1].Key.Family != g.Stream {
				streams = append(streams, domain.Stream{Key: domain.StreamKey{Family: g.Stream}})
			}
			last := &streams[len(streams)-1]
			last.Points = append(last.Points, domain.Point2(g.X, g.Mean))
		}
		out = append(out, RunKeyFigures{Run: run, Figures: aggregate.StreamKeyFigures(streams)})
	}
	return out
}
