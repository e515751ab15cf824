package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/client-ingest/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const clientsTable = "clients"

var clientColumns = []string{"full_name", "dni", "status", "entry_date", "is_pep", "is_obligated_subject"}

type Storer struct {
	db *pgxpool.Pool
}

func NewStorer(pool *ConnectionPool) (*Storer, error) {
	if pool == nil {
		return nil, errors.New("connection pool is required")
	}
	return &Storer{db: pool.conn}, nil
}

// SaveBulk copies the clients inside a single transaction so a failed copy
// leaves nothing behind.
func (s *Storer) SaveBulk(ctx context.Context, clients []domain.Client) error {
	if len(clients) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	copied, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{clientsTable},
		clientColumns,
		pgx.CopyFromSlice(len(clients), func(i int) ([]any, error) {
			c := clients[i]
			return []any{
				c.FullName,
				c.DNI,
				c.Status,
				c.EntryDate,
				c.IsPEP,
				c.IsObligatedSubject,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert clients: %w", err)
	}
	if copied != int64(len(clients)) {
		return fmt.Errorf("failed to bulk insert clients: copied %d of %d rows", copied, len(clients))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit bulk insert: %w", err)
	}
	return nil
}

// Count returns the number of stored clients.
func (s *Storer) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, "SELECT count(*) FROM "+clientsTable).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return n, nil
}
