package pg

import (
	"context"
	"log/slog"
)

// HealthChecker reports healthy once the pool answers and the clients table exists.
type HealthChecker struct {
	pool *ConnectionPool
}

func NewHealthChecker(pool *ConnectionPool) *HealthChecker {
	return &HealthChecker{
		pool: pool,
	}
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.pool == nil {
		return false
	}

	if err := hc.pool.Ping(ctx); err != nil {
		slog.Warn("PostgreSQL health check failed", "error", err)
		return false
	}

	exists, err := hc.pool.ClientsTableExists(ctx)
	if err != nil {
		slog.Warn("PostgreSQL health check failed", "error", err)
		return false
	}
	if !exists {
		slog.Warn("PostgreSQL health check failed: clients table missing, run db/migrations")
	}
	return exists
}
