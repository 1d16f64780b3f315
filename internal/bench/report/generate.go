package report

import "github.com/DjordjeVuckovic/kernsecbench/internal/analysis"

func Generate(res *analysis.Result, opts Options) *Report {
	r := &Report{
		Meta: AnalysisMeta{
			ID:          res.ID,
			Version:     Version,
			Timestamp:   res.CreatedAt,
			Baseline:    opts.Baseline,
			Environment: NewEnvironmentInfo(),
		},
		Comparisons: res.Comparisons,
		KeyFigures:  res.KeyFigures,
		Grid:        res.Grid,
		Fits:        res.Fits,
	}

	aggByRun := make(map[string]int, len(res.Aggregates))
	for i, a := range res.Aggregates {
		aggByRun[a.Run] = i
	}

	for _, run := range res.Runs {
		rr := RunReport{
			Run:         run.Name,
			DisplayName: displayName(run.Name, opts.DisplayNames),
			Iterations:  len(run.Iterations),
		}
		if i, ok := aggByRun[run.Name]; ok {
			rr.Metrics = res.Aggregates[i].Metrics
		} else {
			rr.Failed = true
		}
		r.Runs = append(r.Runs, rr)
	}

	for _, err := range res.Errors {
		r.Errors = append(r.Errors, err.Error())
	}

	return r
}
