package processor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/DjordjeVuckovic/client-ingest/internal/checkpoint"
	"github.com/DjordjeVuckovic/client-ingest/internal/sink"
	"github.com/DjordjeVuckovic/client-ingest/internal/storage"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

const DefaultInputFile = "data/CLIENTES_IN_0425.dat"

// Config holds everything needed to assemble a pipeline for one source file.
type Config struct {
	InputFile       string `yaml:"input_file"`
	BatchSize       int    `yaml:"batch_size"`
	CheckpointFile  string `yaml:"checkpoint_file"`
	FailedLinesFile string `yaml:"failed_lines_file"`
	// FailedBatchesFile receives batches that exhausted their attempts.
	FailedBatchesFile string `yaml:"failed_batches_file"`
	MaxAttempts       int    `yaml:"max_attempts"`
	FlushOnShutdown   bool   `yaml:"flush_on_shutdown"`
}

// LoadFile reads a YAML config file. Defaults are not applied.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnv builds the config from INGEST_CONFIG (optional YAML file) overlaid with
// environment variables and then overrides, then fills defaults and validates.
func LoadEnv(overrides ...func(*Config)) (*Config, error) {
	cfg := &Config{}
	if path := os.Getenv("INGEST_CONFIG"); path != "" {
		fromFile, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fromFile
	}

	if v := os.Getenv("INPUT_FILE"); v != "" {
		cfg.InputFile = v
	}
	if v := os.Getenv("CHECKPOINT_FILE"); v != "" {
		cfg.CheckpointFile = v
	}
	if v := os.Getenv("FAILED_LINES_FILE"); v != "" {
		cfg.FailedLinesFile = v
	}
	if v := os.Getenv("FAILED_BATCHES_FILE"); v != "" {
		cfg.FailedBatchesFile = v
	}
	if v := os.Getenv("BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BATCH_SIZE %q: %w", v, err)
		}
		cfg.BatchSize = n
	}
	if v := os.Getenv("MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_ATTEMPTS %q: %w", v, err)
		}
		cfg.MaxAttempts = n
	}
	if v := os.Getenv("FLUSH_ON_SHUTDOWN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FLUSH_ON_SHUTDOWN %q: %w", v, err)
		}
		cfg.FlushOnShutdown = b
	}

	for _, override := range overrides {
		override(cfg)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills unset fields. Failure logs default to the source's directory.
func (c *Config) ApplyDefaults() {
	if c.InputFile == "" {
		c.InputFile = DefaultInputFile
	}
	if c.BatchSize == 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.CheckpointFile == "" {
		c.CheckpointFile = checkpoint.DefaultPath
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = sink.DefaultMaxAttempts
	}
	dir := filepath.Dir(c.InputFile)
	if c.FailedLinesFile == "" {
		c.FailedLinesFile = filepath.Join(dir, sink.DefaultFailedLinesFile)
	}
	if c.FailedBatchesFile == "" {
		c.FailedBatchesFile = filepath.Join(dir, sink.DefaultFailedBatchesFile)
	}
}

func (c *Config) Validate() error {
	var result *multierror.Error
	if c.InputFile == "" {
		result = multierror.Append(result, errors.New("input file is required"))
	}
	if c.BatchSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("batch size must be positive, got %d", c.BatchSize))
	}
	if c.MaxAttempts <= 0 {
		result = multierror.Append(result, fmt.Errorf("max attempts must be positive, got %d", c.MaxAttempts))
	}
	if c.CheckpointFile == "" {
		result = multierror.Append(result, errors.New("checkpoint file is required"))
	}
	return result.ErrorOrNil()
}

// Build wires a pipeline for the configured source on top of storer's writer.
// The returned pipeline owns the failure logs and closes them when a run ends.
func (c *Config) Build(storer storage.Storer, opts ...PipelineOption) *ClientPipeline {
	batchSink := sink.NewBatchSink(storer,
		sink.WithMaxAttempts(c.MaxAttempts),
		sink.WithSpiller(sink.NewBatchLog(c.FailedBatchesFile)),
	)

	base := []PipelineOption{
		WithBatchSize(c.BatchSize),
		WithCheckpointStore(checkpoint.NewFileStore(c.CheckpointFile)),
		WithRejectSink(sink.NewLineLog(c.FailedLinesFile)),
	}
	if c.FlushOnShutdown {
		base = append(base, WithFlushOnShutdown())
	}

	return NewPipeline(c.InputFile, batchSink, append(base, opts...)...)
}
