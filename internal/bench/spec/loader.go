package spec

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/DjordjeVuckovic/kernsecbench/internal/apperr"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/aggregate"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/fit"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/parse"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLogPattern = "kernel_*.json"
	DefaultOutputDir  = "results"
)

// DefaultExclude lists the log the orchestrator keeps rewriting for the boot
// in progress.
var DefaultExclude = []string{"kernel_current.json"}

// LoadFromFile reads and validates a spec. Relative run log directories are
// resolved against the spec file's directory.
func LoadFromFile(path string) (*AnalysisSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	for i := range s.Runs {
		if !filepath.IsAbs(s.Runs[i].LogDir) {
			s.Runs[i].LogDir = filepath.Join(base, s.Runs[i].LogDir)
		}
	}
	return s, nil
}

func Parse(data []byte) (*AnalysisSpec, error) {
	var s AnalysisSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, apperr.NewValidationWrap("parse spec YAML", err)
	}
	var set thresholdsSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, apperr.NewValidationWrap("parse spec YAML", err)
	}
	if err := validate(&s, set); err != nil {
		return nil, err
	}
	return &s, nil
}

// thresholdsSet records which numeric thresholds the YAML sets explicitly, so
// an explicit zero is kept instead of being replaced by the default.
type thresholdsSet struct {
	Reduce struct {
		MinX *float64 `yaml:"min_x"`
		MaxX *float64 `yaml:"max_x"`
	} `yaml:"reduce"`
	Fit struct {
		MinR2 *float64 `yaml:"min_r2"`
	} `yaml:"fit"`
}

func validate(s *AnalysisSpec, set thresholdsSet) error {
	if len(s.Runs) == 0 {
		return apperr.NewValidation("spec has no runs")
	}
	seen := make(map[string]bool, len(s.Runs))
	for i, r := range s.Runs {
		if r.Name == "" {
			return apperr.NewValidation(fmt.Sprintf("run at index %d has no name", i))
		}
		if seen[r.Name] {
			return apperr.NewValidation(fmt.Sprintf("duplicate run %q", r.Name))
		}
		seen[r.Name] = true
		if r.LogDir == "" {
			return apperr.NewValidation(fmt.Sprintf("run %q has no log_dir", r.Name))
		}
	}
	if s.Baseline != "" && !seen[s.Baseline] {
		return apperr.NewValidation(fmt.Sprintf("baseline references unknown run %q", s.Baseline))
	}
	if _, err := filepath.Match(s.LogPattern, ""); err != nil {
		return apperr.NewValidationWrap("invalid log_pattern", err)
	}

	advance, ok := parse.ParseAdvancePolicy(s.BlockAdvance)
	if !ok {
		return apperr.NewValidation(fmt.Sprintf("invalid block_advance %q", s.BlockAdvance))
	}
	s.Advance = advance

	if set.Reduce.MinX == nil {
		s.Reduce.MinX = aggregate.DefaultReduceMinX
	}
	if set.Reduce.MaxX == nil {
		s.Reduce.MaxX = aggregate.DefaultReduceMaxX
	}
	if s.Reduce.MinX > s.Reduce.MaxX {
		return apperr.NewValidation(fmt.Sprintf("reduce.min_x %g exceeds reduce.max_x %g", s.Reduce.MinX, s.Reduce.MaxX))
	}
	if set.Fit.MinR2 == nil {
		s.Fit.MinR2 = fit.DefaultMinR2
	}
	if s.Fit.MinR2 < 0 || s.Fit.MinR2 > 1 {
		return apperr.NewValidation(fmt.Sprintf("fit.min_r2 %g outside [0, 1]", s.Fit.MinR2))
	}

	if s.LogPattern == "" {
		s.LogPattern = DefaultLogPattern
	}
	if s.Exclude == nil {
		s.Exclude = DefaultExclude
	}
	if s.Fit.MinPoints <= 0 {
		s.Fit.MinPoints = fit.DefaultMinPoints
	}
	if s.Output.Dir == "" {
		s.Output.Dir = DefaultOutputDir
	}
	if s.Workers <= 0 {
		s.Workers = runtime.NumCPU()
	}
	return nil
}
