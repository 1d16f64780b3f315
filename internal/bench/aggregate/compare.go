package aggregate

// RunAggregate is the aggregation result of one run.
type RunAggregate struct {
	Run     string             `json:"run"`
	Metrics []AggregatedMetric `json:"metrics"`
}

func (ra RunAggregate) Metric(name string) (AggregatedMetric, bool) {
	for _, m := range ra.Metrics {
		if m.Metric == name {
			return m, true
		}
	}
	return AggregatedMetric{}, false
}

// Comparison is a run's mean for one metric relative to the baseline run.
type Comparison struct {
	Run          string  `json:"run"`
	Metric       string  `json:"metric"`
	Mean         float64 `json:"mean"`
	BaselineMean float64 `json:"baseline_mean"`
	PctDiff      float64 `json:"pct_diff"`
}

// CompareToBaseline computes (mean - baseline) / baseline * 100 for every
// metric every other run shares with the baseline. Metrics whose baseline
// mean is zero are skipped. It returns nil when baseline is not among runs.
func CompareToBaseline(runs []RunAggregate, baseline string) []Comparison {
	var base *RunAggregate
	for i := range runs {
		if runs[i].Run == baseline {
			base = &runs[i]
			break
		}
	}
	if base == nil {
		return nil
	}

	var out []Comparison
	for _, ra := range runs {
		if ra.Run == baseline {
			continue
		}
		for _, m := range ra.Metrics {
			bm, ok := base.Metric(m.Metric)
			if !ok || bm.Mean == 0 {
				continue
			}
			out = append(out, Comparison{
				Run:          ra.Run,
				Metric:       m.Metric,
				Mean:         m.Mean,
				BaselineMean: bm.Mean,
				PctDiff:      (m.Mean - bm.Mean) / bm.Mean * 100,
			})
		}
	}
	return out
}
