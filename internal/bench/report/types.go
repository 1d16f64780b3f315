package report

import (
	"runtime"
	"time"

	"github.com/DjordjeVuckovic/kernsecbench/internal/analysis"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/aggregate"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/table"
)

const Version = "1"

type Report struct {
	Meta        AnalysisMeta             `json:"meta"`
	Runs        []RunReport              `json:"runs"`
	Comparisons []aggregate.Comparison   `json:"comparisons,omitempty"`
	KeyFigures  []analysis.RunKeyFigures `json:"key_figures,omitempty"`
	Grid        table.WideGrid           `json:"wide_grid,omitempty"`
	Fits        []analysis.StreamFit     `json:"fits,omitempty"`
	Errors      []string                 `json:"errors,omitempty"`
}

type AnalysisMeta struct {
	ID          string          `json:"id"`
	Version     string          `json:"version"`
	Timestamp   time.Time       `json:"timestamp"`
	Baseline    string          `json:"baseline,omitempty"`
	Environment EnvironmentInfo `json:"environment"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

type RunReport struct {
	Run         string                       `json:"run"`
	DisplayName string                       `json:"display_name"`
	Iterations  int                          `json:"iterations"`
	Metrics     []aggregate.AggregatedMetric `json:"metrics"`
	Failed      bool                         `json:"failed,omitempty"`
}

type Options struct {
	Baseline string
	// DisplayNames overrides DefaultShortNames per run.
	DisplayNames map[string]string
}
