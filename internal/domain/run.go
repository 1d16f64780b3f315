package domain

// Iteration is everything extracted from one benchmark execution (one boot
// log). Index is its ordinal within the run and is shared by every table row
// derived from it.
type Iteration struct {
	Index    int             `json:"iteration"`
	Source   string          `json:"source,omitempty"`
	Readings []MetricReading `json:"readings"`
	Streams  Streams         `json:"streams"`
}

// Run is one benchmark configuration executed one or more times.
type Run struct {
	Name       string      `json:"run"`
	Iterations []Iteration `json:"iterations"`
}

// ReadingLists returns the per-iteration reading lists in ordinal order.
func (r Run) ReadingLists() [][]MetricReading {
	out := make([][]MetricReading, len(r.Iterations))
	for i, it := range r.Iterations {
		out[i] = it.Readings
	}
	return out
}
