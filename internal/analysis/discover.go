package analysis

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/DjordjeVuckovic/kernsecbench/internal/bootlog"
)

// DiscoverLogs lists the log files of one run directory matching pattern,
// minus the excluded base names, sorted by name.
func DiscoverLogs(dir, pattern string, exclude []string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}
	out := matches[:0]
	for _, m := range matches {
		if slices.Contains(exclude, filepath.Base(m)) {
			continue
		}
		out = append(out, m)
	}
	slices.Sort(out)
	return out, nil
}

// LoadRunInput reads every discovered log of a run directory.
func LoadRunInput(name, dir, pattern string, exclude []string) (RunInput, error) {
	paths, err := DiscoverLogs(dir, pattern, exclude)
	if err != nil {
		return RunInput{}, err
	}
	in := RunInput{Name: name, Logs: make([]LogInput, 0, len(paths))}
	for _, p := range paths {
		doc, err := bootlog.LoadFile(p)
		if err != nil {
			return RunInput{}, err
		}
		in.Logs = append(in.Logs, LogInput{Source: filepath.Base(p), Lines: doc.Lines})
	}
	return in, nil
}
