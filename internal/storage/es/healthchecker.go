package es

import (
	"context"
	"log/slog"
)

// Healthy pings the cluster and checks that the clients index is still there.
func (e *Storer) Healthy(ctx context.Context) bool {
	up, err := e.client.Ping().Do(ctx)
	if err != nil || !up {
		slog.Warn("Elasticsearch health check failed", "error", err)
		return false
	}

	exists, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil || !exists {
		slog.Warn("Elasticsearch health check failed", "index", e.indexName, "exists", exists, "error", err)
		return false
	}
	return true
}
