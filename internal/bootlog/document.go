package bootlog

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Document is a captured boot log as persisted by the VM runner.
type Document struct {
	Lines    []string `json:"lines"`
	Metadata Metadata `json:"metadata"`
}

type Metadata struct {
	TestMarker *string `json:"test_marker"`
}

var kernelLineRe = regexp.MustCompile(`^\[\s*\d+\.\d+\]\s*(.*)$`)

func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boot log: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse boot log JSON: %w", err)
	}
	return &d, nil
}

// TestLines returns the lines between the first two kernel log lines whose
// message matches the test marker, both markers included. Without a marker,
// or when no line matches, all lines are returned. A missing closing marker
// yields everything from the opening one.
func (d *Document) TestLines() ([]string, error) {
	if d.Metadata.TestMarker == nil {
		return d.Lines, nil
	}
	marker, err := regexp.Compile("^(?:" + *d.Metadata.TestMarker + ")")
	if err != nil {
		return nil, fmt.Errorf("compile test marker: %w", err)
	}

	start, end := -1, -1
	for i, line := range d.Lines {
		m := kernelLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil || !marker.MatchString(strings.TrimSpace(m[1])) {
			continue
		}
		if start < 0 {
			start = i
		} else if end < 0 {
			end = i
			break
		}
	}

	switch {
	case start < 0:
		return d.Lines, nil
	case end < 0:
		return d.Lines[start:], nil
	default:
		return d.Lines[start : end+1], nil
	}
}
