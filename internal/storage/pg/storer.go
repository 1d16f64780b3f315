package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/kernsecbench/internal/apperr"
	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/table"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	scalarColumns = []string{"analysis_id", "run", "iteration", "metric", "value", "unit"}
	streamColumns = []string{"analysis_id", "run", "iteration", "stream", "x", "y", "z"}
)

type Storer struct {
	db *pgxpool.Pool
}

func NewStorer(pool *ConnectionPool) (*Storer, error) {
	return &Storer{db: pool.conn}, nil
}

func parseAnalysisID(analysisID string) (uuid.UUID, error) {
	id, err := uuid.Parse(analysisID)
	if err != nil {
		return uuid.Nil, apperr.NewValidationWrap("analysis id must be a UUID", err)
	}
	return id, nil
}

func (s *Storer) SaveScalars(ctx context.Context, analysisID string, rows []table.ScalarRow) error {
	id, err := parseAnalysisID(analysisID)
	if err != nil {
		return err
	}

	n, err := s.db.CopyFrom(
		ctx,
		pgx.Identifier{"scalar_rows"},
		scalarColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{id, r.Run, r.Iteration, r.Metric, r.Value, r.Unit}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert scalar rows: %w", err)
	}

	slog.Info("Scalar rows copied", "analysis_id", analysisID, "rows", n)
	return nil
}

func (s *Storer) SaveStreams(ctx context.Context, analysisID string, rows []table.StreamRow) error {
	id, err := parseAnalysisID(analysisID)
	if err != nil {
		return err
	}

	n, err := s.db.CopyFrom(
		ctx,
		pgx.Identifier{"stream_rows"},
		streamColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{id, r.Run, r.Iteration, r.Stream, r.X, r.Y, r.Z}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert stream rows: %w", err)
	}

	slog.Info("Stream rows copied", "analysis_id", analysisID, "rows", n)
	return nil
}

// LoadScalars reads back the scalar rows of one pass in insertion order of
// run and iteration.
func (s *Storer) LoadScalars(ctx context.Context, analysisID string) ([]table.ScalarRow, error) {
	id, err := parseAnalysisID(analysisID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT run, iteration, metric, value, unit
		FROM scalar_rows
		WHERE analysis_id = $1
		ORDER BY run, iteration, metric`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query scalar rows: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (table.ScalarRow, error) {
		var r table.ScalarRow
		err := row.Scan(&r.Run, &r.Iteration, &r.Metric, &r.Value, &r.Unit)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan scalar rows: %w", err)
	}
	return out, nil
}
