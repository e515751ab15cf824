package in_mem

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DjordjeVuckovic/client-ingest/internal/domain"
)

// InMemStorer keeps every saved client in memory. Useful for dry runs and tests.
type InMemStorer struct {
	storageLock sync.RWMutex
	storage     []domain.Client
}

func NewInMemStorer() *InMemStorer {
	return &InMemStorer{}
}

func (s *InMemStorer) SaveBulk(ctx context.Context, clients []domain.Client) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	s.storage = append(s.storage, clients...)
	slog.Debug("Saved clients to in-memory storage", "count", len(clients), "total", len(s.storage))

	return nil
}

// Clients returns a copy of everything saved so far.
func (s *InMemStorer) Clients() []domain.Client {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	out := make([]domain.Client, len(s.storage))
	copy(out, s.storage)
	return out
}

func (s *InMemStorer) Len() int {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	return len(s.storage)
}
