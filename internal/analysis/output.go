package analysis

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/fit"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/table"
)

const (
	ScalarFile = "scalar_results.csv"
	StreamFile = "stream_results.csv"
	GridFile   = "wide_grid.csv"
)

func FitFile(stream string) string {
	return fmt.Sprintf("fits_%s.csv", stream)
}

type outputFile struct {
	name  string
	write func(io.Writer) error
}

// WriteTables writes the tidy tables, the wide grid and one averaged-fit
// table per fitted stream into dir.
func WriteTables(res *Result, dir string) error {
	files := []outputFile{
		{ScalarFile, func(w io.Writer) error { return table.WriteScalarCSV(w, res.ScalarRows) }},
		{StreamFile, func(w io.Writer) error { return table.WriteStreamCSV(w, res.StreamRows) }},
		{GridFile, func(w io.Writer) error { return table.WriteGridCSV(w, res.Grid) }},
	}
	for _, sf := range res.Fits {
		files = append(files, outputFile{
			name:  FitFile(sf.Stream),
			write: func(w io.Writer) error { return fit.WriteAveragedCSV(w, sf.Averaged) },
		})
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := table.WriteFile(path, f.write); err != nil {
			return err
		}
		slog.Info("Table written", "path", path)
	}
	return nil
}
