package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/client-ingest/internal/storage"
	"github.com/DjordjeVuckovic/client-ingest/internal/storage/es"
	"github.com/DjordjeVuckovic/client-ingest/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/client-ingest/internal/storage/pg"
	pkgserver "github.com/DjordjeVuckovic/client-ingest/pkg/server"
)

// Storage bundles the storer picked by configuration with its health check and
// the function releasing its resources.
type Storage struct {
	Storer        storage.Storer
	HealthChecker pkgserver.HealthChecker
	Close         func()
}

// NewStorage creates the storer selected by cfg.Type.
func NewStorage(ctx context.Context, cfg StorageConfig) (*Storage, error) {
	slog.Info("Creating storage", "storageType", cfg.Type)

	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		storer, err := pg.NewStorer(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return &Storage{
			Storer:        storer,
			HealthChecker: pg.NewHealthChecker(pool),
			Close:         pool.Close,
		}, nil

	case storage.ES:
		if cfg.Es == nil {
			return nil, fmt.Errorf("missing Elasticsearch configuration")
		}
		storer, err := es.NewStorer(ctx, *cfg.Es)
		if err != nil {
			return nil, err
		}
		return &Storage{
			Storer:        storer,
			HealthChecker: storer,
			Close:         func() {},
		}, nil

	case storage.InMem:
		return &Storage{
			Storer:        in_mem.NewInMemStorer(),
			HealthChecker: pkgserver.NewOkHealthChecker(),
			Close:         func() {},
		}, nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
