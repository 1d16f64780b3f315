package aggregate

import "github.com/DjordjeVuckovic/kernsecbench/internal/domain"

// KeyFigures are the headline numbers of one two-column stream.
type KeyFigures struct {
	Stream   string  `json:"stream"`
	Peak     float64 `json:"peak"`
	PeakAtX  float64 `json:"peak_at_x"`
	Worst    float64 `json:"worst"`
	WorstAtX float64 `json:"worst_at_x"`
	Mean     float64 `json:"mean"`
}

// StreamKeyFigures returns peak, worst and mean y of every non-empty
// two-column stream. Ties keep the first x.
func StreamKeyFigures(streams domain.Streams) []KeyFigures {
	var out []KeyFigures
	for _, s := range streams {
		if !s.TwoColumn() {
			continue
		}
		first := s.Points[0]
		kf := KeyFigures{
			Stream:   s.Key.String(),
			Peak:     first.Y,
			PeakAtX:  first.X,
			Worst:    first.Y,
			WorstAtX: first.X,
		}
		var sum float64
		for _, p := range s.Points {
			sum += p.Y
			if p.Y > kf.Peak {
				kf.Peak, kf.PeakAtX = p.Y, p.X
			}
			if p.Y < kf.Worst {
				kf.Worst, kf.WorstAtX = p.Y, p.X
			}
		}
		kf.Mean = sum / float64(len(s.Points))
		out = append(out, kf)
	}
	return out
}
