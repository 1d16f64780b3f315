package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

var (
	ScalarHeader = []string{"run", "iteration", "metric", "value", "unit"}
	StreamHeader = []string{"run", "iteration", "stream", "x", "y", "z"}
	GridHeader   = []string{"run", "stream", "x", "mean", "stdev"}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func WriteScalarCSV(w io.Writer, rows []ScalarRow) error {
	return writeCSV(w, ScalarHeader, len(rows), func(i int) []string {
		r := rows[i]
		return []string{r.Run, strconv.Itoa(r.Iteration), r.Metric, formatFloat(r.Value), r.Unit}
	})
}

// WriteStreamCSV writes stream rows; the z column is empty for two-column
// streams.
func WriteStreamCSV(w io.Writer, rows []StreamRow) error {
	return writeCSV(w, StreamHeader, len(rows), func(i int) []string {
		r := rows[i]
		z := ""
		if r.Z != nil {
			z = formatFloat(*r.Z)
		}
		return []string{r.Run, strconv.Itoa(r.Iteration), r.Stream, formatFloat(r.X), formatFloat(r.Y), z}
	})
}

func WriteGridCSV(w io.Writer, grid WideGrid) error {
	return writeCSV(w, GridHeader, len(grid), func(i int) []string {
		g := grid[i]
		return []string{g.Run, g.Stream, formatFloat(g.X), formatFloat(g.Mean), formatFloat(g.Stdev)}
	})
}

func writeCSV(w io.Writer, header []string, n int, record func(i int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(record(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates path (and its directory) and hands it to write.
func WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
