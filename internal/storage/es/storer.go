package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/table"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

type Storer struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewStorer(ctx context.Context, config ClientConfig) (*Storer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	storer := &Storer{
		client:    client,
		indexName: config.IndexName,
	}

	if err := storer.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return storer, nil
}

func (e *Storer) SaveScalars(ctx context.Context, analysisID string, rows []table.ScalarRow) error {
	return e.bulk(ctx, KindScalar, len(rows), func(i int) (string, Document) {
		return scalarDocument(analysisID, i, rows[i])
	})
}

func (e *Storer) SaveStreams(ctx context.Context, analysisID string, rows []table.StreamRow) error {
	return e.bulk(ctx, KindStream, len(rows), func(i int) (string, Document) {
		return streamDocument(analysisID, i, rows[i])
	})
}

func (e *Storer) bulk(ctx context.Context, kind string, n int, doc func(i int) (string, Document)) error {
	if n == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         e.indexName,
		Client:        e.client,
		NumWorkers:    4,
		FlushBytes:    5e+6, // 5MB
		FlushInterval: 30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64

	for i := 0; i < n; i++ {
		id, d := doc(i)

		body, err := json.Marshal(d)
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "id", id)
			failed.Add(1)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: id,
			Body:       bytes.NewReader(body),
			OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
				successful.Add(1)
			},
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add document to bulk indexer", "error", err, "id", id)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("Bulk indexing completed",
		"kind", kind,
		"successful", successful.Load(),
		"failed", failed.Load(),
		"total", n,
		"index", e.indexName)

	if f := failed.Load(); f > 0 {
		return fmt.Errorf("failed to index %d out of %d %s rows", f, n, kind)
	}
	return nil
}

func (e *Storer) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("Index already exists", "index", e.indexName)
		return nil
	}

	mappings := buildMapping()
	createRes, err := e.client.Indices.Create(e.indexName).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", e.indexName)
	return nil
}

// Count returns the number of indexed rows of one analysis pass and kind.
func (e *Storer) Count(ctx context.Context, analysisID, kind string) (int64, error) {
	if _, err := e.client.Indices.Refresh().Index(e.indexName).Do(ctx); err != nil {
		return 0, fmt.Errorf("failed to refresh index: %w", err)
	}
	res, err := e.client.Count().
		Index(e.indexName).
		Q(fmt.Sprintf("analysis_id:%q AND kind:%s", analysisID, kind)).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return res.Count, nil
}
