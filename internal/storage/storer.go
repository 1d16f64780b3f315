package storage

import (
	"context"

	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/table"
)

// Storer persists the tidy tables of one analysis pass. analysisID groups the
// rows of a pass so several passes can share one sink.
type Storer interface {
	SaveScalars(ctx context.Context, analysisID string, rows []table.ScalarRow) error
	SaveStreams(ctx context.Context, analysisID string, rows []table.StreamRow) error
}

type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	CSV   Type = "csv"
	InMem Type = "in_mem"
)

var Types = []Type{ES, PG, CSV, InMem}

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}

// SaveAll stores both tables of a pass.
func SaveAll(ctx context.Context, s Storer, analysisID string, scalars []table.ScalarRow, streams []table.StreamRow) error {
	if err := s.SaveScalars(ctx, analysisID, scalars); err != nil {
		return err
	}
	return s.SaveStreams(ctx, analysisID, streams)
}
