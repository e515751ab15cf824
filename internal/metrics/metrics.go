// Package metrics exposes Prometheus instruments for ingestion runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "client_ingest"

// Batch outcomes used as the "outcome" label.
const (
	OutcomeWritten = "written"
	OutcomeSpilled = "spilled"
)

// Ingest groups the counters a pipeline run updates. A nil *Ingest is valid and
// records nothing.
type Ingest struct {
	linesRead       prometheus.Counter
	linesSkipped    prometheus.Counter
	recordsRejected *prometheus.CounterVec
	recordsWritten  prometheus.Counter
	batches         *prometheus.CounterVec
	batchDuration   prometheus.Histogram
	checkpoint      prometheus.Gauge
	runs            *prometheus.CounterVec
}

func NewIngest(reg prometheus.Registerer) *Ingest {
	m := &Ingest{
		linesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_read_total",
			Help:      "Source lines consumed, including skipped ones.",
		}),
		linesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_skipped_total",
			Help:      "Source lines skipped because a checkpoint covered them.",
		}),
		recordsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_rejected_total",
			Help:      "Lines rejected by parsing or validation.",
		}, []string{"reason"}),
		recordsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_written_total",
			Help:      "Clients written to storage.",
		}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Flushed batches by outcome.",
		}, []string{"outcome"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_write_duration_seconds",
			Help:      "Time spent writing one batch, retries included.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		checkpoint: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "checkpoint_lines",
			Help:      "Last persisted checkpoint.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by result.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.linesRead,
			m.linesSkipped,
			m.recordsRejected,
			m.recordsWritten,
			m.batches,
			m.batchDuration,
			m.checkpoint,
			m.runs,
		)
	}
	return m
}

func (m *Ingest) LineRead(skipped bool) {
	if m == nil {
		return
	}
	m.linesRead.Inc()
	if skipped {
		m.linesSkipped.Inc()
	}
}

func (m *Ingest) Rejected(reason string) {
	if m == nil {
		return
	}
	m.recordsRejected.WithLabelValues(reason).Inc()
}

func (m *Ingest) BatchFlushed(outcome string, records int, took time.Duration) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(outcome).Inc()
	m.batchDuration.Observe(took.Seconds())
	if outcome == OutcomeWritten {
		m.recordsWritten.Add(float64(records))
	}
}

func (m *Ingest) CheckpointSaved(lines int64) {
	if m == nil {
		return
	}
	m.checkpoint.Set(float64(lines))
}

func (m *Ingest) RunFinished(result string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(result).Inc()
}
