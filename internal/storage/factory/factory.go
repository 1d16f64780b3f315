package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/kernsecbench/internal/storage"
	"github.com/DjordjeVuckovic/kernsecbench/internal/storage/csv"
	"github.com/DjordjeVuckovic/kernsecbench/internal/storage/es"
	"github.com/DjordjeVuckovic/kernsecbench/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/kernsecbench/internal/storage/pg"
)

// NewStorer creates a storage.Storer for cfg.Type. The returned close func
// releases connections and is never nil.
func NewStorer(ctx context.Context, cfg *StorageConfig) (storage.Storer, func(), error) {
	noop := func() {}

	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, noop, fmt.Errorf("missing PostgreSQL configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		s, err := pg.NewStorer(pool)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		return s, pool.Close, nil

	case storage.ES:
		if cfg.Es == nil {
			return nil, noop, fmt.Errorf("missing Elasticsearch configuration")
		}
		s, err := es.NewStorer(ctx, *cfg.Es)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil

	case storage.CSV:
		return csv.NewStorer(cfg.CSVDir), noop, nil

	case storage.InMem:
		return in_mem.NewInMemStorer(), noop, nil

	default:
		return nil, noop, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
