package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/kernsecbench/internal/apperr"
	"github.com/DjordjeVuckovic/kernsecbench/internal/domain"
)

// number matches the unsigned decimals lmbench prints; anything it accepts
// parses with strconv.ParseFloat.
const number = `([0-9]*\.?[0-9]+)`

// ScalarPattern matches one "label: value unit" line. When NameFormat is set
// the first capture group is a parameter folded into the metric name with
// fmt.Sprintf, and value and unit are the next two groups.
type ScalarPattern struct {
	Name       string
	NameFormat string
	Expr       *regexp.Regexp
}

func simple(name, label string) ScalarPattern {
	return ScalarPattern{
		Name: name,
		Expr: regexp.MustCompile(`^` + label + `:\s*` + number + `\s+(\S+)$`),
	}
}

// DefaultScalarPatterns is the lmbench summary line table.
func DefaultScalarPatterns() []ScalarPattern {
	return []ScalarPattern{
		simple("syscall", `Simple syscall`),
		simple("read", `Simple read`),
		simple("write", `Simple write`),
		simple("stat", `Simple stat`),
		simple("fstat", `Simple fstat`),
		simple("open_close", `Simple open/close`),
		{
			Name:       "select_N",
			NameFormat: "select_%s",
			Expr:       regexp.MustCompile(`^Select on (\d+) fd's:\s*` + number + `\s+(\S+)$`),
		},
		{
			Name:       "select_N_tcp",
			NameFormat: "select_tcp_%s",
			Expr:       regexp.MustCompile(`^Select on (\d+) tcp fd's:\s*` + number + `\s+(\S+)$`),
		},
		simple("pipe_latency", `Pipe latency`),
		simple("unix_sock_stream_latency", `AF_UNIX sock stream latency`),
		simple("fork_exit", `Process fork\+exit`),
		simple("fork_execve", `Process fork\+execve`),
		simple("fork_bin_sh", `Process fork\+/bin/sh -c`),
		simple("file_write_bandwidth", `File /var/tmp/XXX write bandwidth`),
	}
}

// Classifier maps a single line to at most one MetricReading.
type Classifier struct {
	patterns []ScalarPattern
}

func NewClassifier(patterns []ScalarPattern) *Classifier {
	return &Classifier{patterns: patterns}
}

// Classify returns the reading for line, or nil when no pattern matches.
// A line matched by more than one pattern is an *apperr.AmbiguousError.
func (c *Classifier) Classify(line string) (*domain.MetricReading, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	var (
		found   *domain.MetricReading
		matched []string
	)
	for _, p := range c.patterns {
		m := p.Expr.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		matched = append(matched, p.Name)

		name, groups := p.Name, m[1:]
		if p.NameFormat != "" {
			name, groups = fmt.Sprintf(p.NameFormat, groups[0]), groups[1:]
		}
		value, err := strconv.ParseFloat(groups[0], 64)
		if err != nil {
			return nil, fmt.Errorf("scalar %q: parse value %q: %w", p.Name, groups[0], err)
		}
		found = &domain.MetricReading{Metric: name, Value: value, Unit: groups[1]}
	}

	if len(matched) > 1 {
		return nil, &apperr.AmbiguousError{Line: line, Patterns: matched}
	}
	return found, nil
}

// ParseScalars classifies every non-blank line and returns the readings in
// line order.
func (c *Classifier) ParseScalars(lines []string) ([]domain.MetricReading, error) {
	var readings []domain.MetricReading
	for _, line := range lines {
		r, err := c.Classify(line)
		if err != nil {
			return nil, err
		}
		if r != nil {
			readings = append(readings, *r)
		}
	}
	return readings, nil
}
