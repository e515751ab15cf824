package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/client-ingest/internal/domain"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// Storer indexes clients into Elasticsearch. Documents are keyed by DNI, so a
// retried batch overwrites instead of duplicating.
type Storer struct {
	client    *elasticsearch.TypedClient
	indexName string
}

// Document is the indexed representation of a client.
type Document struct {
	FullName           string    `json:"full_name"`
	DNI                int64     `json:"dni"`
	Status             string    `json:"status"`
	EntryDate          string    `json:"entry_date"`
	IsPEP              bool      `json:"is_pep"`
	IsObligatedSubject *bool     `json:"is_obligated_subject"`
	IndexedAt          time.Time `json:"indexed_at"`
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

func (e *Storer) SaveBulk(ctx context.Context, clients []domain.Client) error {
	if len(clients) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:      e.indexName,
		Client:     e.client,
		NumWorkers: 2,
		FlushBytes: 5e+6, // 5MB
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var failed atomic.Int64
	now := time.Now()

	for _, c := range clients {
		docBytes, err := json.Marshal(toDocument(c, now))
		if err != nil {
			_ = bi.Close(ctx)
			return fmt.Errorf("failed to marshal client %d: %w", c.DNI, err)
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: strconv.FormatInt(c.DNI, 10),
			Body:       bytes.NewReader(docBytes),
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
			_ = bi.Close(ctx)
			return fmt.Errorf("failed to add client %d to bulk indexer: %w", c.DNI, err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	stats := bi.Stats()
	slog.Debug("Bulk indexing completed",
		"indexed", stats.NumIndexed,
		"failed", stats.NumFailed,
		"total", len(clients),
		"index", e.indexName)

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d clients", n, len(clients))
	}
	return nil
}

func toDocument(c domain.Client, indexedAt time.Time) Document {
	return Document{
		FullName:           c.FullName,
		DNI:                c.DNI,
		Status:             c.Status,
		EntryDate:          c.EntryDate.Format(time.DateOnly),
		IsPEP:              c.IsPEP,
		IsObligatedSubject: c.IsObligatedSubject,
		IndexedAt:          indexedAt,
	}
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

	nameProp := types.NewTextProperty()
	nameProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"full_name":            nameProp,
			"dni":                  types.NewLongNumberProperty(),
			"status":               types.NewKeywordProperty(),
			"entry_date":           types.NewDateProperty(),
			"is_pep":               types.NewBooleanProperty(),
			"is_obligated_subject": types.NewBooleanProperty(),
			"indexed_at":           types.NewDateProperty(),
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

	slog.Info("Index created successfully", "index", e.indexName)
	return nil
}
