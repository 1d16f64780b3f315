package aggregate

import (
	"github.com/DjordjeVuckovic/kernsecbench/internal/apperr"
	"github.com/DjordjeVuckovic/kernsecbench/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// AggregatedMetric summarizes one metric over all iterations of a run.
type AggregatedMetric struct {
	Metric      string  `json:"metric"`
	Mean        float64 `json:"mean"`
	Stdev       float64 `json:"stdev"`
	SampleCount int     `json:"sample_count"`
	Unit        string  `json:"unit"`
}

type bucket struct {
	values []float64
	units  []string
	mixed  bool
}

// AggregateRun merges the readings of every iteration of run by metric name.
// Metrics are returned in first-seen order. Stdev is the sample standard
// deviation and is 0 for a single sample. Readings of one metric carrying
// different units abort the whole run with an *apperr.InconsistentError.
func AggregateRun(run string, iterations [][]domain.MetricReading) ([]AggregatedMetric, error) {
	buckets := make(map[string]*bucket)
	var order []string

	for _, readings := range iterations {
		for _, r := range readings {
			b, ok := buckets[r.Metric]
			if !ok {
				b = &bucket{}
				buckets[r.Metric] = b
				order = append(order, r.Metric)
			}
			b.values = append(b.values, r.Value)
			if len(b.units) > 0 && b.units[len(b.units)-1] != r.Unit {
				b.mixed = true
			}
			b.units = append(b.units, r.Unit)
		}
	}

	out := make([]AggregatedMetric, 0, len(order))
	for _, metric := range order {
		b := buckets[metric]
		if b.mixed {
			return nil, &apperr.InconsistentError{Run: run, Metric: metric, Units: distinct(b.units)}
		}

		agg := AggregatedMetric{
			Metric:      metric,
			SampleCount: len(b.values),
			Unit:        b.units[0],
		}
		if len(b.values) == 1 {
			agg.Mean = b.values[0]
		} else {
			agg.Mean, agg.Stdev = stat.MeanStdDev(b.values, nil)
		}
		out = append(out, agg)
	}

	return out, nil
}

func distinct(units []string) []string {
	seen := make(map[string]bool, len(units))
	var out []string
	for _, u := range units {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
