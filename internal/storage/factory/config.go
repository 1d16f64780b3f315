package factory

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/DjordjeVuckovic/kernsecbench/internal/storage"
	"github.com/DjordjeVuckovic/kernsecbench/internal/storage/es"
	"github.com/DjordjeVuckovic/kernsecbench/internal/storage/pg"
)

type StorageConfig struct {
	storage.Type
	Pg     *pg.PoolConfig
	Es     *es.ClientConfig
	CSVDir string
}

func LoadEnv() (*StorageConfig, error) {
	storageType := storage.Type(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		slog.Error("STORAGE_TYPE environment variable is not set")
		return nil, fmt.Errorf("STORAGE_TYPE environment variable is not set")
	}
	if !slices.Contains(storage.Types, storageType) {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			storage.Types)
	}

	cfg := &StorageConfig{Type: storageType}

	switch storageType {
	case storage.ES:
		cfg.Es = &es.ClientConfig{
			Addresses: strings.Split(os.Getenv("ES_ADDRESSES"), ","),
			IndexName: os.Getenv("ES_INDEX_NAME"),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
		}
		if os.Getenv("ES_ADDRESSES") == "" || cfg.Es.IndexName == "" {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", cfg.Es.Addresses, "indexName", cfg.Es.IndexName)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: addresses or index name is missing")
		}
	case storage.PG:
		cfg.Pg = &pg.PoolConfig{ConnStr: os.Getenv("PG_CONNECTION_STRING")}
		if cfg.Pg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
	case storage.CSV:
		cfg.CSVDir = os.Getenv("CSV_STORAGE_DIR")
		if cfg.CSVDir == "" {
			cfg.CSVDir = "results/store"
		}
	}

	return cfg, nil
}
