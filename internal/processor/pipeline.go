package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/DjordjeVuckovic/client-ingest/internal/checkpoint"
	"github.com/DjordjeVuckovic/client-ingest/internal/codec"
	"github.com/DjordjeVuckovic/client-ingest/internal/domain"
	"github.com/DjordjeVuckovic/client-ingest/internal/metrics"
	"github.com/DjordjeVuckovic/client-ingest/internal/reader"
	"github.com/DjordjeVuckovic/client-ingest/internal/sink"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

const defaultBatchSize = 1000

var ErrSourceNotFound = errors.New("source file not found")

// BatchWriter persists one batch. A returned error means the batch was given up
// on; the pipeline logs it and keeps going.
type BatchWriter interface {
	Write(ctx context.Context, batch []domain.Client) error
}

// PipelineConfig defines configuration for pipelines
type PipelineConfig struct {
	Name            string
	BatchSize       int
	FlushOnShutdown bool
}

// Summary describes a finished or interrupted run.
type Summary struct {
	RunID  uuid.UUID `json:"runId"`
	Source string    `json:"source"`
	// TotalLines counts every line read in this run, skipped ones included.
	TotalLines     int64 `json:"totalLines"`
	Skipped        int64 `json:"skipped"`
	Processed      int64 `json:"processed"`
	Inserted       int64 `json:"inserted"`
	Failed         int64 `json:"failed"`
	Batches        int   `json:"batches"`
	FailedBatches  int   `json:"failedBatches"`
	SpilledRecords int64 `json:"spilledRecords"`
	// FailedLinesLogged is the size of the failed-lines log after the run,
	// earlier runs included.
	FailedLinesLogged int           `json:"failedLinesLogged"`
	Elapsed           time.Duration `json:"elapsed"`
	Interrupted       bool          `json:"interrupted"`
}

// ClientPipeline streams a delimited client file into a BatchWriter, checkpointing
// after every flushed batch.
type ClientPipeline struct {
	source     string
	sink       BatchWriter
	checkpoint checkpoint.Store
	rejects    sink.RejectSink
	metrics    *metrics.Ingest
	config     *PipelineConfig
}

type PipelineOption func(pipeline *ClientPipeline)

// WithBatchSize sets how many valid records are buffered before a flush.
func WithBatchSize(size int) PipelineOption {
	return func(pipeline *ClientPipeline) {
		if size > 0 {
			pipeline.config.BatchSize = size
		}
	}
}

func WithCheckpointStore(store checkpoint.Store) PipelineOption {
	return func(pipeline *ClientPipeline) {
		pipeline.checkpoint = store
	}
}

func WithRejectSink(rejects sink.RejectSink) PipelineOption {
	return func(pipeline *ClientPipeline) {
		pipeline.rejects = rejects
	}
}

func WithMetrics(m *metrics.Ingest) PipelineOption {
	return func(pipeline *ClientPipeline) {
		pipeline.metrics = m
	}
}

// WithFlushOnShutdown makes a cancelled run flush its partial buffer before
// returning. By default the buffer is dropped and re-read on resume.
func WithFlushOnShutdown() PipelineOption {
	return func(pipeline *ClientPipeline) {
		pipeline.config.FlushOnShutdown = true
	}
}

func WithName(name string) PipelineOption {
	return func(pipeline *ClientPipeline) {
		pipeline.config.Name = name
	}
}

// NewPipeline creates a pipeline reading source. Rejected lines go to
// failed_lines.log next to the source unless WithRejectSink says otherwise.
func NewPipeline(source string, w BatchWriter, opts ...PipelineOption) *ClientPipeline {
	p := &ClientPipeline{
		source:     source,
		sink:       w,
		checkpoint: checkpoint.NewFileStore(checkpoint.DefaultPath),
		rejects:    sink.NewLineLog(filepath.Join(filepath.Dir(source), sink.DefaultFailedLinesFile)),
		config: &PipelineConfig{
			Name:      "client-pipeline",
			BatchSize: defaultBatchSize,
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// run carries per-run state so ClientPipeline stays reusable.
type run struct {
	log       *slog.Logger
	summary   *Summary
	lines     *reader.LineReader
	sizeBytes int64
}

// Run processes the source until it is exhausted or ctx is cancelled. A
// cancelled run returns its summary with Interrupted set and a nil error.
func (p *ClientPipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: uuid.New(), Source: p.source}
	log := slog.With("pipeline", p.config.Name, "run_id", summary.RunID)

	info, err := os.Stat(p.source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, p.source)
		}
		return nil, fmt.Errorf("failed to stat source %s: %w", p.source, err)
	}

	f, err := os.Open(p.source)
	if err != nil {
		return nil, fmt.Errorf("failed to open source %s: %w", p.source, err)
	}
	defer f.Close()

	log.Info("🛫 Starting pipeline run",
		"source", p.source,
		"batch_size", p.config.BatchSize,
		"size_bytes", info.Size(),
		"time", start,
	)

	resumeFrom := p.checkpoint.Load()
	if resumeFrom > 0 {
		log.Info("Resuming from checkpoint", "line", resumeFrom)
	}

	r := &run{
		log:       log,
		summary:   summary,
		lines:     reader.NewLineReader(f),
		sizeBytes: info.Size(),
	}

	runErr := p.stream(ctx, r, resumeFrom)
	summary.Elapsed = time.Since(start)

	if closeErr := p.close(); closeErr != nil {
		log.Warn("Could not close pipeline resources", "error", closeErr)
	}
	if counter, ok := p.rejects.(interface{ Count() (int, error) }); ok {
		if n, err := counter.Count(); err == nil {
			summary.FailedLinesLogged = n
		}
	}

	switch {
	case runErr != nil:
		p.metrics.RunFinished("failed")
		log.Error("Pipeline run failed", "error", runErr, "lines", summary.TotalLines)
		return summary, runErr
	case summary.Interrupted:
		p.metrics.RunFinished("interrupted")
		log.Info("Pipeline run interrupted", summarize(summary)...)
	default:
		if err := p.checkpoint.Clear(); err != nil {
			log.Error("Could not clear checkpoint", "error", err)
		}
		p.metrics.RunFinished("completed")
		log.Info("✅ Pipeline run completed", summarize(summary)...)
	}

	return summary, nil
}

func (p *ClientPipeline) stream(ctx context.Context, r *run, resumeFrom int64) error {
	batch := make([]domain.Client, 0, p.config.BatchSize)

	for {
		if ctx.Err() != nil {
			r.summary.Interrupted = true
			r.log.Info("Pipeline context cancelled, stopping",
				"line", r.lines.Position(),
				"pending_batch", len(batch),
			)
			if p.config.FlushOnShutdown && len(batch) > 0 {
				p.flush(ctx, r, batch)
			}
			return nil
		}

		line, ok := r.lines.Next()
		if !ok {
			break
		}
		r.summary.TotalLines++

		if line.Position <= resumeFrom {
			r.summary.Skipped++
			p.metrics.LineRead(true)
			continue
		}
		p.metrics.LineRead(false)

		if line.Truncated {
			p.reject(r, line, &codec.RejectionError{
				Kind:   codec.MalformedShape,
				Reason: fmt.Sprintf("line exceeds %d bytes", reader.MaxLineSize),
			})
			continue
		}

		client, err := codec.Parse(line.Text)
		if err != nil {
			p.reject(r, line, err)
			continue
		}

		batch = append(batch, client)
		if len(batch) >= p.config.BatchSize {
			p.flush(ctx, r, batch)
			batch = make([]domain.Client, 0, p.config.BatchSize)
		}
	}

	if err := r.lines.Err(); err != nil {
		return fmt.Errorf("failed to read source %s: %w", p.source, err)
	}

	if len(batch) > 0 {
		p.flush(ctx, r, batch)
	}
	return nil
}

func (p *ClientPipeline) reject(r *run, line reader.RawLine, err error) {
	r.summary.Failed++

	reason := "Unknown"
	var rejection *codec.RejectionError
	if errors.As(err, &rejection) {
		reason = string(rejection.Kind)
	}
	p.metrics.Rejected(reason)

	r.log.Warn("Invalid line",
		"line", line.Position,
		"reason", reason,
		"error", err,
	)
	p.rejects.Record(line.Text)
}

// flush hands batch to the sink and advances the checkpoint whatever the outcome.
func (p *ClientPipeline) flush(ctx context.Context, r *run, batch []domain.Client) {
	start := time.Now()
	err := p.sink.Write(context.WithoutCancel(ctx), batch)
	took := time.Since(start)

	s := r.summary
	s.Batches++
	s.Processed += int64(len(batch))

	var writeErr *sink.WriteError
	switch {
	case err == nil:
		s.Inserted += int64(len(batch))
		p.metrics.BatchFlushed(metrics.OutcomeWritten, len(batch), took)
	case errors.As(err, &writeErr):
		s.FailedBatches++
		if writeErr.Spilled {
			s.SpilledRecords += int64(writeErr.Records)
		}
		p.metrics.BatchFlushed(metrics.OutcomeSpilled, len(batch), took)
		r.log.Error("Batch could not be written, continuing", "batch", s.Batches, "error", err)
	default:
		s.FailedBatches++
		p.metrics.BatchFlushed(metrics.OutcomeSpilled, len(batch), took)
		r.log.Error("Batch could not be written, continuing", "batch", s.Batches, "error", err)
	}

	position := r.lines.Position()
	if err := p.checkpoint.Save(position); err != nil {
		r.log.Error("Could not save checkpoint", "line", position, "error", err)
	} else {
		p.metrics.CheckpointSaved(position)
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	attrs := []any{
		"batch", s.Batches,
		"count", len(batch),
		"line", position,
		"processed", s.Processed,
		"took", took,
		"heap_mb", mem.HeapAlloc / 1024 / 1024,
	}
	if r.sizeBytes > 0 {
		attrs = append(attrs, "progress_pct", progress(r.lines.BytesRead(), r.sizeBytes))
	}
	r.log.Info("Batch flushed", attrs...)
}

func (p *ClientPipeline) close() error {
	var result *multierror.Error
	if c, ok := p.rejects.(io.Closer); ok {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to close reject log: %w", err))
		}
	}
	if c, ok := p.sink.(io.Closer); ok {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to close sink: %w", err))
		}
	}
	return result.ErrorOrNil()
}

func progress(read, total int64) float64 {
	pct := float64(read) / float64(total) * 100
	if pct > 100 {
		return 100
	}
	return float64(int(pct*100)) / 100
}

func summarize(s *Summary) []any {
	return []any{
		"total_lines", s.TotalLines,
		"skipped", s.Skipped,
		"processed", s.Processed,
		"inserted", s.Inserted,
		"failed", s.Failed,
		"failed_batches", s.FailedBatches,
		"failed_lines_logged", s.FailedLinesLogged,
		"elapsed", s.Elapsed,
	}
}
