package fit

import (
	"math"

	"github.com/DjordjeVuckovic/kernsecbench/internal/apperr"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/table"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultMinPoints = 4
	DefaultMinR2     = 0.85
)

// FitResult is an accepted y = K * x^Alpha fit of one iteration. R is the
// Pearson correlation of log(x) and log(y).
type FitResult struct {
	Run       string  `json:"run"`
	Iteration int     `json:"iteration"`
	K         float64 `json:"k"`
	Alpha     float64 `json:"alpha"`
	R         float64 `json:"r"`
}

// AveragedFit summarizes the accepted fits of one run.
type AveragedFit struct {
	Run       string  `json:"run"`
	KMean     float64 `json:"k_mean"`
	AlphaMean float64 `json:"alpha_mean"`
	KStd      float64 `json:"k_std"`
	AlphaStd  float64 `json:"alpha_std"`
	N         int     `json:"n"`
}

type Fitter struct {
	MinPoints int
	MinR2     float64
}

func NewFitter() Fitter {
	return Fitter{MinPoints: DefaultMinPoints, MinR2: DefaultMinR2}
}

type iterationKey struct {
	run       string
	iteration int
}

// FitStream fits every (run, iteration) of stream separately. Iterations with
// fewer than MinPoints points, non-positive coordinates or r² below MinR2
// contribute nothing. A stream without any two-column rows yields an
// apperr.ErrNotFound error.
func (f Fitter) FitStream(rows []table.StreamRow, stream string) ([]FitResult, error) {
	own := lo.Filter(rows, func(r table.StreamRow, _ int) bool {
		return r.Stream == stream && r.Z == nil
	})
	if len(own) == 0 {
		return nil, apperr.NotFoundf("two-column rows for stream %s", stream)
	}

	toKey := func(r table.StreamRow) iterationKey {
		return iterationKey{run: r.Run, iteration: r.Iteration}
	}
	groups := lo.GroupBy(own, toKey)
	order := lo.Uniq(lo.Map(own, func(r table.StreamRow, _ int) iterationKey { return toKey(r) }))

	var out []FitResult
	for _, key := range order {
		res, ok := f.fit(groups[key])
		if !ok {
			continue
		}
		res.Run, res.Iteration = key.run, key.iteration
		out = append(out, res)
	}
	return out, nil
}

func (f Fitter) fit(rows []table.StreamRow) (FitResult, bool) {
	if len(rows) < f.MinPoints {
		return FitResult{}, false
	}

	logX := make([]float64, len(rows))
	logY := make([]float64, len(rows))
	for i, r := range rows {
		if r.X <= 0 || r.Y <= 0 {
			return FitResult{}, false
		}
		logX[i] = math.Log(r.X)
		logY[i] = math.Log(r.Y)
	}

	intercept, slope := stat.LinearRegression(logX, logY, nil, false)
	r := stat.Correlation(logX, logY, nil)
	// NaN r (constant x or y) fails the comparison as well.
	if !(r*r >= f.MinR2) {
		return FitResult{}, false
	}

	return FitResult{K: math.Exp(intercept), Alpha: slope, R: r}, true
}

// AverageFits reduces accepted fits to per-run mean and population standard
// deviation of k and alpha, runs in first-seen order.
func AverageFits(results []FitResult) []AveragedFit {
	byRun := lo.GroupBy(results, func(r FitResult) string { return r.Run })
	order := lo.Uniq(lo.Map(results, func(r FitResult, _ int) string { return r.Run }))

	out := make([]AveragedFit, 0, len(order))
	for _, run := range order {
		fits := byRun[run]
		ks := lo.Map(fits, func(r FitResult, _ int) float64 { return r.K })
		alphas := lo.Map(fits, func(r FitResult, _ int) float64 { return r.Alpha })

		avg := AveragedFit{Run: run, N: len(fits)}
		avg.KMean, avg.KStd = stat.PopMeanStdDev(ks, nil)
		avg.AlphaMean, avg.AlphaStd = stat.PopMeanStdDev(alphas, nil)
		out = append(out, avg)
	}
	return out
}
