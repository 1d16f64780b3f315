package csv

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/table"
)

const (
	ScalarFile = "scalar_results.csv"
	StreamFile = "stream_results.csv"
)

// Storer writes each pass to <dir>/<analysisID>/ as delimited tables.
type Storer struct {
	dir string
}

func NewStorer(dir string) *Storer {
	return &Storer{dir: dir}
}

func (s *Storer) Path(analysisID, name string) string {
	return filepath.Join(s.dir, analysisID, name)
}

func (s *Storer) SaveScalars(_ context.Context, analysisID string, rows []table.ScalarRow) error {
	path := s.Path(analysisID, ScalarFile)
	if err := table.WriteFile(path, func(w io.Writer) error { return table.WriteScalarCSV(w, rows) }); err != nil {
		return err
	}
	slog.Info("Scalar table written", "path", path, "rows", len(rows))
	return nil
}

func (s *Storer) SaveStreams(_ context.Context, analysisID string, rows []table.StreamRow) error {
	path := s.Path(analysisID, StreamFile)
	if err := table.WriteFile(path, func(w io.Writer) error { return table.WriteStreamCSV(w, rows) }); err != nil {
		return err
	}
	slog.Info("Stream table written", "path", path, "rows", len(rows))
	return nil
}
