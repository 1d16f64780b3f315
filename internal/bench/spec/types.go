package spec

import "github.com/DjordjeVuckovic/kernsecbench/internal/bench/parse"

// AnalysisSpec describes one analysis pass over the boot logs of several runs.
type AnalysisSpec struct {
	Runs         []RunSpec    `yaml:"runs"`
	LogPattern   string       `yaml:"log_pattern"`
	Exclude      []string     `yaml:"exclude"`
	Baseline     string       `yaml:"baseline"`
	Reduce       ReduceConfig `yaml:"reduce"`
	Fit          FitConfig    `yaml:"fit"`
	BlockAdvance string       `yaml:"block_advance"`
	Output       OutputConfig `yaml:"output"`
	Workers      int          `yaml:"workers"`

	Advance parse.AdvancePolicy `yaml:"-"`
}

type RunSpec struct {
	Name        string `yaml:"name"`
	LogDir      string `yaml:"log_dir"`
	DisplayName string `yaml:"display_name,omitempty"`
}

// Label is the name shown in text reports.
func (r RunSpec) Label() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Name
}

type ReduceConfig struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
}

type FitConfig struct {
	MinPoints int      `yaml:"min_points"`
	MinR2     float64  `yaml:"min_r2"`
	Streams   []string `yaml:"streams"`
}

type OutputConfig struct {
	Dir          string `yaml:"dir"`
	DumpSections bool   `yaml:"dump_sections"`
}

// DisplayNames maps run names to their report labels.
func (s *AnalysisSpec) DisplayNames() map[string]string {
	out := make(map[string]string, len(s.Runs))
	for _, r := range s.Runs {
		out[r.Name] = r.Label()
	}
	return out
}
