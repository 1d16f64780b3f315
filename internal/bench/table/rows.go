package table

import "github.com/DjordjeVuckovic/kernsecbench/internal/domain"

// ScalarRow is one scalar observation of one iteration.
type ScalarRow struct {
	Run       string  `json:"run"`
	Iteration int     `json:"iteration"`
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
}

// StreamRow is one point of one stream of one iteration. Z is nil for
// two-column streams.
type StreamRow struct {
	Run       string   `json:"run"`
	Iteration int      `json:"iteration"`
	Stream    string   `json:"stream"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Z         *float64 `json:"z,omitempty"`
}

// BuildScalarRows flattens every reading of every iteration, runs in the given
// order and iterations in ordinal order.
func BuildScalarRows(runs []domain.Run) []ScalarRow {
	var rows []ScalarRow
	for _, run := range runs {
		for _, it := range run.Iterations {
			for _, r := range it.Readings {
				rows = append(rows, ScalarRow{
					Run:       run.Name,
					Iteration: it.Index,
					Metric:    r.Metric,
					Value:     r.Value,
					Unit:      r.Unit,
				})
			}
		}
	}
	return rows
}

// BuildStreamRows flattens every stream point. Streams without points yield
// no rows.
func BuildStreamRows(runs []domain.Run) []StreamRow {
	var rows []StreamRow
	for _, run := range runs {
		for _, it := range run.Iterations {
			for _, s := range it.Streams {
				key := s.Key.String()
				for _, p := range s.Points {
					row := StreamRow{
						Run:       run.Name,
						Iteration: it.Index,
						Stream:    key,
						X:         p.X,
						Y:         p.Y,
					}
					if p.HasZ {
						z := p.Z
						row.Z = &z
					}
					rows = append(rows, row)
				}
			}
		}
	}
	return rows
}
