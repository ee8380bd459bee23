package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/trec-hunter/internal/dataset"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

type Storer struct {
	client    *elasticsearch.TypedClient
	indexName string
	config    ClientConfig
}

// Document is the indexed shape of one flattened qrel row.
type Document struct {
	RunID       string    `json:"run_id"`
	QueryID     string    `json:"query_id"`
	QueryText   string    `json:"query_text"`
	DocID       string    `json:"doc_id"`
	PassageText string    `json:"passage_text"`
	Relevance   int       `json:"relevance"`
	ExportedAt  time.Time `json:"exported_at"`
}

func NewStorer(ctx context.Context, config ClientConfig) (*Storer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	storer := &Storer{
		client:    client,
		indexName: config.IndexName,
		config:    config,
	}

	if err := storer.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return storer, nil
}

func (e *Storer) SaveBulk(ctx context.Context, runID string, rows []dataset.Row) error {
	if len(rows) == 0 {
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

	now := time.Now()
	var successful, failed int64

	for _, row := range rows {
		doc := Document{
			RunID:       runID,
			QueryID:     row.QueryID,
			QueryText:   row.QueryText,
			DocID:       row.DocID,
			PassageText: row.PassageText,
			Relevance:   row.Relevance,
			ExportedAt:  now,
		}

		docID := fmt.Sprintf("%s:%s:%s", runID, doc.QueryID, doc.DocID)

		docBytes, err := json.Marshal(doc)
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "id", docID)
			failed++
			continue
		}

		err = bi.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: docID,
				Body:       bytes.NewReader(docBytes),
				OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
					successful++
				},
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					failed++
					if err != nil {
						slog.Error("bulk index error", "error", err, "id", item.DocumentID)
					} else {
						slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
					}
				},
			},
		)
		if err != nil {
			failed++
			slog.Error("failed to add document to bulk indexer", "error", err, "id", docID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("bulk indexing completed",
		"successful", successful,
		"failed", failed,
		"total", len(rows),
		"index", e.indexName)

	if failed > 0 {
		return fmt.Errorf("failed to index %d out of %d rows", failed, len(rows))
	}

	return nil
}

func (e *Storer) EnsureIndex(ctx context.Context) error {
	existsRes, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}

	if existsRes {
		slog.Info("index already exists", "index", e.indexName)
		return nil
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"run_id":       types.NewKeywordProperty(),
			"query_id":     types.NewKeywordProperty(),
			"query_text":   types.NewTextProperty(),
			"doc_id":       types.NewKeywordProperty(),
			"passage_text": types.NewTextProperty(),
			"relevance":    types.NewIntegerNumberProperty(),
			"exported_at":  types.NewDateProperty(),
		},
	}

	createRes, err := e.client.Indices.Create(e.indexName).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("index created successfully", "index", e.indexName)
	return nil
}
