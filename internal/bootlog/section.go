package bootlog

import "strings"

const (
	AuxStart = "Aux log file:"

	GlibcEnd    = "[TAG: AUX GLIBC-BENCH RESULTS]"
	InkscapeEnd = "[TAG: AUX INKSCAPE-BENCH RESULTS]"
	SqliteEnd   = "[TAG: AUX SQLITE-BENCH RESULTS]"

	LmbenchStart = "[TAG: AUX LMBENCH RESULTS]"
	LmbenchEnd   = "[TAG: AUX LMBENCH RESULTS END]"
)

// Probe names a report family by the markers enclosing its section.
type Probe struct {
	Name  string
	Start string
	End   string
}

// AuxProbes share the Aux start marker and are tried in this order.
var AuxProbes = []Probe{
	{Name: "glibc", Start: AuxStart, End: GlibcEnd},
	{Name: "inkscape", Start: AuxStart, End: InkscapeEnd},
	{Name: "sqlite", Start: AuxStart, End: SqliteEnd},
}

var LmbenchProbe = Probe{Name: "lmbench", Start: LmbenchStart, End: LmbenchEnd}

// Extract returns the lines strictly between the first start marker and the
// first end marker after it. Markers are compared on trimmed lines. ok is
// false when either marker is missing.
func Extract(lines []string, start, end string) (section []string, ok bool) {
	from := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == start {
			from = i
			break
		}
	}
	if from < 0 {
		return nil, false
	}
	for i := from + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == end {
			return lines[from+1 : i], true
		}
	}
	return nil, false
}

// FirstMatch tries probes in order and returns the first one whose section is
// present, with its lines.
func FirstMatch(lines []string, probes []Probe) (Probe, []string, bool) {
	for _, p := range probes {
		if section, ok := Extract(lines, p.Start, p.End); ok {
			return p, section, true
		}
	}
	return Probe{}, nil, false
}
