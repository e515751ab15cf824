package storage

import (
	"context"

	"github.com/DjordjeVuckovic/client-ingest/internal/domain"
)

// Storer is the destination of flushed batches. SaveBulk must be all-or-nothing:
// an error means none of the clients should be considered written.
type Storer interface {
	SaveBulk(ctx context.Context, clients []domain.Client) error
}

type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
)

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}
