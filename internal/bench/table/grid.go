package table

import (
	"log/slog"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// GridRow is the cross-iteration summary of one x of one (run, stream) pair.
type GridRow struct {
	Run    string  `json:"run"`
	Stream string  `json:"stream"`
	X      float64 `json:"x"`
	Mean   float64 `json:"mean"`
	Stdev  float64 `json:"stdev"`
}

type WideGrid []GridRow

type seriesKey struct {
	run    string
	stream string
}

// BuildWideGrid reshapes stream rows into per-(run, stream) series over x.
// A pair is included only when every iteration reports the same set of x
// values; otherwise it is skipped whole. Pairs keep first-seen order and x is
// ascending within a pair.
func BuildWideGrid(rows []StreamRow) WideGrid {
	byKey := lo.GroupBy(rows, func(r StreamRow) seriesKey {
		return seriesKey{run: r.Run, stream: r.Stream}
	})
	order := lo.Uniq(lo.Map(rows, func(r StreamRow, _ int) seriesKey {
		return seriesKey{run: r.Run, stream: r.Stream}
	}))

	var grid WideGrid
	for _, key := range order {
		group := byKey[key]
		xs, ok := commonXSet(group)
		if !ok {
			slog.Warn("Skipping stream in wide grid: iterations disagree on x values",
				"run", key.run, "stream", key.stream, "stage", "wide_grid")
			continue
		}

		byX := lo.GroupBy(group, func(r StreamRow) float64 { return r.X })
		for _, x := range xs {
			ys := lo.Map(byX[x], func(r StreamRow, _ int) float64 { return r.Y })
			row := GridRow{Run: key.run, Stream: key.stream, X: x}
			if len(ys) < 2 {
				row.Mean = ys[0]
			} else {
				row.Mean, row.Stdev = stat.MeanStdDev(ys, nil)
			}
			grid = append(grid, row)
		}
	}
	return grid
}

// commonXSet returns the sorted x set shared by all iterations of group, or
// false when any two iterations differ.
func commonXSet(group []StreamRow) ([]float64, bool) {
	perIter := lo.GroupBy(group, func(r StreamRow) int { return r.Iteration })

	var ref []float64
	first := true
	for _, iterRows := range perIter {
		xs := lo.Uniq(lo.Map(iterRows, func(r StreamRow, _ int) float64 { return r.X }))
		slices.Sort(xs)
		if first {
			ref, first = xs, false
			continue
		}
		if !slices.Equal(ref, xs) {
			return nil, false
		}
	}
	return ref, true
}
