package sink

import (
	"encoding/json"
	"fmt"

	"github.com/DjordjeVuckovic/client-ingest/internal/domain"
)

const DefaultFailedBatchesFile = "failed_batches.log"

// Spiller durably keeps batches that could not be written for later manual
// reconciliation.
type Spiller interface {
	Spill(batch []domain.Client) error
}

// BatchLog writes every spilled batch as one JSON array per line.
type BatchLog struct {
	log appendLog
}

func NewBatchLog(path string) *BatchLog {
	if path == "" {
		path = DefaultFailedBatchesFile
	}
	return &BatchLog{log: appendLog{path: path}}
}

func (b *BatchLog) Path() string {
	return b.log.path
}

func (b *BatchLog) Spill(batch []domain.Client) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to serialize batch: %w", err)
	}
	return b.log.append(data)
}

func (b *BatchLog) Count() (int, error) {
	return b.log.count()
}

func (b *BatchLog) Close() error {
	return b.log.close()
}
