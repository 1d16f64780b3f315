package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/kernsecbench/internal/domain"
)

// BlockValues is the number of value lines following a block header.
const BlockValues = 3

// AdvancePolicy decides where scanning resumes after a block whose value
// lines ended early on a non-numeric line.
type AdvancePolicy int

const (
	// AdvanceFixed always skips header plus BlockValues lines, even when a
	// skipped line was the next block's header.
	AdvanceFixed AdvancePolicy = iota
	// AdvanceRescan resumes at the first line that failed to parse.
	AdvanceRescan
)

func (p AdvancePolicy) String() string {
	switch p {
	case AdvanceFixed:
		return "fixed"
	case AdvanceRescan:
		return "rescan"
	default:
		return "unknown"
	}
}

func ParseAdvancePolicy(s string) (AdvancePolicy, bool) {
	switch s {
	case "", "fixed":
		return AdvanceFixed, true
	case "rescan":
		return AdvanceRescan, true
	default:
		return AdvanceFixed, false
	}
}

// BlockFormat describes a "header line + three numeric lines" report. The
// header's first capture group names the metric unless FixedName is set.
type BlockFormat struct {
	Family    string
	Header    *regexp.Regexp
	FixedName string
	Unit      string
}

var (
	GlibcFormat = BlockFormat{
		Family: "glibc",
		Header: regexp.MustCompile(`(?i)^Benchmark:\s*([^:]+):`),
		Unit:   "ns",
	}
	InkscapeFormat = BlockFormat{
		Family: "inkscape",
		Header: regexp.MustCompile(`(?i)^Operation:\s*([^:]+):`),
		Unit:   "s",
	}
	SqliteFormat = BlockFormat{
		Family:    "sqlite",
		Header:    regexp.MustCompile(`(?i)^Threads / Copies:\s*([0-9]+)`),
		FixedName: "sqlite_ops",
		Unit:      "s",
	}
)

func DefaultBlockFormats() map[string]BlockFormat {
	return map[string]BlockFormat{
		GlibcFormat.Family:    GlibcFormat,
		InkscapeFormat.Family: InkscapeFormat,
		SqliteFormat.Family:   SqliteFormat,
	}
}

// Parse scans lines for block headers and emits one reading per value line
// parsed. Reading a block stops at the first value line that is not a float.
func (f BlockFormat) Parse(lines []string, policy AdvancePolicy) []domain.MetricReading {
	var readings []domain.MetricReading

	i := 0
	for i < len(lines) {
		m := f.Header.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			i++
			continue
		}

		name := f.FixedName
		if name == "" {
			name = strings.TrimSpace(m[1])
		}

		read := 0
		for j := 1; j <= BlockValues && i+j < len(lines); j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(lines[i+j]), 64)
			if err != nil {
				break
			}
			readings = append(readings, domain.MetricReading{Metric: name, Value: v, Unit: f.Unit})
			read++
		}

		if policy == AdvanceRescan {
			i += 1 + read
		} else {
			i += 1 + BlockValues
		}
	}

	return readings
}
