package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/kernsecbench/internal/domain"
)

// StreamTitle recognizes a stream table header. For parameterized titles the
// first capture group becomes the key's Param, so blocks of one family stay
// distinct.
type StreamTitle struct {
	Family        string
	Expr          *regexp.Regexp
	Parameterized bool
}

func title(family, text string) StreamTitle {
	return StreamTitle{Family: family, Expr: regexp.MustCompile(`(?i)^` + text + `$`)}
}

// DefaultStreamTitles is the lmbench range table header set.
func DefaultStreamTitles() []StreamTitle {
	return []StreamTitle{
		title("mem_read_bw", `Memory read bandwidth`),
		title("mem_write_bw", `Memory write bandwidth`),
		title("mem_partial_rw_bw", `Memory partial read/write bandwidth`),
		title("mem_partial_read_bw", `Memory partial read bandwidth`),
		title("mem_partial_write_bw", `Memory partial write bandwidth`),
		title("mmap_read_bw", `Mmap read bandwidth`),
		title("mmap_read_open_bw", `Mmap read open2close bandwidth`),
		title("read_bw", `read bandwidth`),
		title("read_open_bw", `read open2close bandwidth`),
		title("libc_bcopy_unaligned", `libc bcopy unaligned`),
		title("libc_bcopy_aligned", `libc bcopy aligned`),
		title("mem_bzero_bw", `Memory bzero bandwidth`),
		title("unrolled_bcopy_unaligned", `unrolled bcopy unaligned`),
		title("unrolled_partial_bcopy_unaligned", `unrolled partial bcopy unaligned`),
		title("fs_latency", `File system latency`),
		title("mappings", `mappings`),
		{
			Family:        "size_latency",
			Expr:          regexp.MustCompile(`(?i)^(size=\d+k) ovr=.*$`),
			Parameterized: true,
		},
	}
}

var tupleRe = regexp.MustCompile(`^` + number + `\s+` + number + `(?:\s+` + number + `)?$`)

// State is the scanner state: Idle, or inside the table of Key.
type State struct {
	Key      domain.StreamKey
	InStream bool
}

var Idle = State{}

func InStream(key domain.StreamKey) State {
	return State{Key: key, InStream: true}
}

type Action int

const (
	ActionNone Action = iota
	// ActionOpen starts (or restarts) the table of the next state's key.
	ActionOpen
	// ActionAppend adds Transition.Point to the current key's table.
	ActionAppend
)

type Transition struct {
	Next   State
	Action Action
	Point  domain.Point
}

// StreamParser splits an lmbench report into its named numeric tables.
type StreamParser struct {
	classifier *Classifier
	titles     []StreamTitle
}

func NewStreamParser(classifier *Classifier, titles []StreamTitle) *StreamParser {
	return &StreamParser{classifier: classifier, titles: titles}
}

// Step applies one line to state s. An error only comes from an ambiguous
// scalar pattern table.
func (p *StreamParser) Step(s State, line string) (Transition, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Transition{Next: Idle}, nil
	}

	r, err := p.classifier.Classify(line)
	if err != nil {
		return Transition{}, err
	}
	if r != nil {
		return Transition{Next: Idle}, nil
	}

	if key, ok := p.matchTitle(line); ok {
		return Transition{Next: InStream(key), Action: ActionOpen}, nil
	}

	if s.InStream {
		if pt, ok := parseTuple(line); ok {
			return Transition{Next: s, Action: ActionAppend, Point: pt}, nil
		}
	}
	return Transition{Next: Idle}, nil
}

// Parse runs the state machine over lines. Headers without rows produce
// empty streams; a repeated header replaces the earlier table in place.
func (p *StreamParser) Parse(lines []string) (domain.Streams, error) {
	var streams domain.Streams
	index := make(map[domain.StreamKey]int)

	state := Idle
	for _, line := range lines {
		tr, err := p.Step(state, line)
		if err != nil {
			return nil, err
		}

		switch tr.Action {
		case ActionOpen:
			if i, ok := index[tr.Next.Key]; ok {
				streams[i].Points = nil
			} else {
				index[tr.Next.Key] = len(streams)
				streams = append(streams, domain.Stream{Key: tr.Next.Key})
			}
		case ActionAppend:
			i := index[tr.Next.Key]
			streams[i].Points = append(streams[i].Points, tr.Point)
		}
		state = tr.Next
	}

	return streams, nil
}

func (p *StreamParser) matchTitle(line string) (domain.StreamKey, bool) {
	clean := strings.Trim(line, `"`)
	for _, t := range p.titles {
		m := t.Expr.FindStringSubmatch(clean)
		if m == nil {
			continue
		}
		key := domain.StreamKey{Family: t.Family}
		if t.Parameterized && len(m) > 1 {
			key.Param = m[1]
		}
		return key, true
	}
	return domain.StreamKey{}, false
}

func parseTuple(line string) (domain.Point, bool) {
	m := tupleRe.FindStringSubmatch(line)
	if m == nil {
		return domain.Point{}, false
	}
	x, errX := strconv.ParseFloat(m[1], 64)
	y, errY := strconv.ParseFloat(m[2], 64)
	if errX != nil || errY != nil {
		return domain.Point{}, false
	}
	if m[3] == "" {
		return domain.Point2(x, y), true
	}
	z, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return domain.Point{}, false
	}
	return domain.Point3(x, y, z), true
}
