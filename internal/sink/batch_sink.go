// Package sink holds the write side of the ingestion pipeline: the batch sink
// with bounded retry and the append-only logs for rejected lines and
// unwritable batches.
package sink

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/DjordjeVuckovic/client-ingest/internal/domain"
	"github.com/DjordjeVuckovic/client-ingest/internal/storage"
	"github.com/avast/retry-go"
)

const DefaultMaxAttempts = 2

// WriteError is returned when a batch could not be written after every attempt.
type WriteError struct {
	Attempts int
	Records  int
	// Spilled reports whether the batch reached the unwritable-batch log.
	Spilled  bool
	SpillErr error
	Err      error
}

func (e *WriteError) Error() string {
	msg := fmt.Sprintf("failed to write batch of %d clients after %d attempt(s): %v", e.Records, e.Attempts, e.Err)
	if !e.Spilled {
		msg += fmt.Sprintf(" (spill failed: %v)", e.SpillErr)
	}
	return msg
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// BatchSink writes batches to a storer, retrying immediately up to maxAttempts
// times and spilling batches that never make it.
type BatchSink struct {
	storer      storage.Storer
	spill       Spiller
	maxAttempts int
}

type BatchSinkOption func(*BatchSink)

func WithMaxAttempts(n int) BatchSinkOption {
	return func(s *BatchSink) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func WithSpiller(spill Spiller) BatchSinkOption {
	return func(s *BatchSink) {
		s.spill = spill
	}
}

func NewBatchSink(storer storage.Storer, opts ...BatchSinkOption) *BatchSink {
	s := &BatchSink{
		storer:      storer,
		spill:       NewBatchLog(DefaultFailedBatchesFile),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write stores the batch. An empty batch is a no-op. On exhaustion the batch is
// spilled and a *WriteError is returned; the caller is expected to carry on.
func (s *BatchSink) Write(ctx context.Context, batch []domain.Client) error {
	if len(batch) == 0 {
		return nil
	}

	attempts := 0
	err := retry.Do(
		func() error {
			attempts++
			return s.storer.SaveBulk(ctx, batch)
		},
		retry.Context(ctx),
		retry.Attempts(uint(s.maxAttempts)),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Error("Error inserting batch",
				"attempt", n+1,
				"max_attempts", s.maxAttempts,
				"count", len(batch),
				"error", err,
			)
		}),
	)
	if err == nil {
		return nil
	}

	writeErr := &WriteError{
		Attempts: attempts,
		Records:  len(batch),
		Err:      err,
	}
	if spillErr := s.spill.Spill(batch); spillErr != nil {
		writeErr.SpillErr = spillErr
		slog.Error("Could not spill unwritable batch", "count", len(batch), "error", spillErr)
	} else {
		writeErr.Spilled = true
		slog.Warn("Batch spilled after exhausting retries", "count", len(batch), "attempts", attempts)
	}
	return writeErr
}

// Close releases the spiller when it holds an open file.
func (s *BatchSink) Close() error {
	if c, ok := s.spill.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
