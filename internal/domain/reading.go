package domain

// MetricReading is a single scalar measurement taken from a benchmark report.
type MetricReading struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
}
