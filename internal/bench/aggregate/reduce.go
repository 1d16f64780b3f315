package aggregate

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/DjordjeVuckovic/kernsecbench/internal/apperr"
	"github.com/DjordjeVuckovic/kernsecbench/internal/domain"
)

const (
	DefaultReduceMinX = 1
	DefaultReduceMaxX = 32
	ReducedUnit       = "raw"
)

// Reducer turns the points of a two-column stream that fall inside
// [MinX, MaxX] into scalar metrics named "<stream>_<x>".
type Reducer struct {
	MinX float64
	MaxX float64
	Unit string
}

func DefaultReducer() Reducer {
	return Reducer{MinX: DefaultReduceMinX, MaxX: DefaultReduceMaxX, Unit: ReducedUnit}
}

func (r Reducer) Reduce(key domain.StreamKey, points []domain.Point) ([]domain.MetricReading, error) {
	var out []domain.MetricReading
	for _, p := range points {
		if p.HasZ {
			return nil, apperr.NotFoundf("stream %s is not two-column", key)
		}
		if p.X < r.MinX || p.X > r.MaxX {
			continue
		}
		out = append(out, domain.MetricReading{
			Metric: key.String() + "_" + strconv.FormatFloat(p.X, 'f', -1, 64),
			Value:  p.Y,
			Unit:   r.Unit,
		})
	}
	if len(out) == 0 {
		return nil, apperr.NotFoundf("stream %s has no points in [%g, %g]", key, r.MinX, r.MaxX)
	}
	return out, nil
}

// ReduceAll reduces every non-empty two-column stream of one iteration.
// Streams with nothing to contribute are skipped.
func (r Reducer) ReduceAll(streams domain.Streams) []domain.MetricReading {
	var out []domain.MetricReading
	for _, s := range streams {
		if !s.TwoColumn() {
			continue
		}
		readings, err := r.Reduce(s.Key, s.Points)
		if errors.Is(err, apperr.ErrNotFound) {
			slog.Debug("Stream reduction skipped", "stream", s.Key.String(), "reason", err)
			continue
		}
		out = append(out, readings...)
	}
	return out
}
