package analysis

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DjordjeVuckovic/kernsecbench/internal/apperr"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/aggregate"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/parse"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bootlog"
	"github.com/DjordjeVuckovic/kernsecbench/internal/domain"
)

// Extraction is everything read from one boot log.
type Extraction struct {
	Readings []domain.MetricReading `json:"readings"`
	Streams  domain.Streams         `json:"streams"`
	Sections map[string][]string    `json:"-"`
}

func (e *Extraction) empty() bool {
	return len(e.Readings) == 0 && len(e.Streams.NonEmpty()) == 0
}

type Extractor struct {
	parser  *parse.Parser
	reducer aggregate.Reducer
}

func NewExtractor(parser *parse.Parser, reducer aggregate.Reducer) *Extractor {
	return &Extractor{parser: parser, reducer: reducer}
}

// Extract reads the first Aux report present and the lmbench report of one
// log. Stream reductions join the lmbench scalar readings. A log carrying
// neither section yields an apperr.ErrNotFound error. A failing lmbench parse
// keeps whatever the Aux report produced and returns the error alongside.
func (x *Extractor) Extract(lines []string) (*Extraction, error) {
	ex := &Extraction{Sections: make(map[string][]string)}

	if probe, section, ok := bootlog.FirstMatch(lines, bootlog.AuxProbes); ok {
		ex.Sections[probe.Name] = section
		readings, err := x.parser.ParseBlocks(probe.Name, section)
		if err != nil {
			return nil, fmt.Errorf("parse %s section: %w", probe.Name, err)
		}
		ex.Readings = append(ex.Readings, readings...)
	}

	var lmErr error
	if section, ok := bootlog.Extract(lines, bootlog.LmbenchProbe.Start, bootlog.LmbenchProbe.End); ok {
		ex.Sections[bootlog.LmbenchProbe.Name] = section
		scalars, streams, err := x.parser.ParseLmbench(section)
		if err != nil {
			lmErr = fmt.Errorf("parse lmbench section: %w", err)
		} else {
			ex.Readings = append(ex.Readings, scalars...)
			ex.Readings = append(ex.Readings, x.reducer.ReduceAll(streams)...)
			ex.Streams = streams
		}
	}

	if len(ex.Sections) == 0 {
		return nil, apperr.NotFoundf("benchmark sections")
	}
	return ex, lmErr
}

// DumpSections writes each extracted section to
// <dir>/raw_results_<run>/<family>_results_<iteration>.txt.
func DumpSections(dir, run string, iteration int, sections map[string][]string) error {
	runDir := filepath.Join(dir, "raw_results_"+run)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", runDir, err)
	}
	var errs []error
	for family, lines := range sections {
		path := filepath.Join(runDir, fmt.Sprintf("%s_results_%d.txt", family, iteration))
		data := strings.Join(lines, "\n") + "\n"
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}
