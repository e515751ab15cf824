// Package generator writes synthetic client files, optionally salted with
// malformed lines, for load and failure testing of the ingestion pipeline.
package generator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// AvgLineSize is the assumed size of one generated line in bytes.
const AvgLineSize = 100

const ctxCheckEvery = 10_000

var sizePattern = regexp.MustCompile(`(?i)^([\d.]+)\s*(gb|mb|kb|b)?$`)

var (
	firstNames = []string{"Juan", "María", "Carlos", "Lucía", "Jorge", "Ana", "Pedro", "Sofía", "Diego", "Valentina"}
	lastNames  = []string{"Pérez", "González", "Rodríguez", "Fernández", "López", "Martínez", "Gómez", "Díaz", "Sánchez", "Romero"}
	statuses   = []string{"ACTIVE", "INACTIVE", "PENDING", "SUSPENDED"}

	minDate = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxDate = time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// ParseSize turns "2gb", "500MB", "10kb", "100b" or "123" into bytes.
func ParseSize(size string) (int64, error) {
	match := sizePattern.FindStringSubmatch(strings.TrimSpace(size))
	if match == nil {
		return 0, fmt.Errorf("invalid size format %q", size)
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size format %q: %w", size, err)
	}

	switch strings.ToLower(match[2]) {
	case "gb":
		value *= 1024 * 1024 * 1024
	case "mb":
		value *= 1024 * 1024
	case "kb":
		value *= 1024
	}

	bytes := int64(value)
	if bytes <= 0 {
		return 0, fmt.Errorf("size must be positive, got %q", size)
	}
	return bytes, nil
}

// EstimateRecords returns how many lines roughly fill targetBytes.
func EstimateRecords(targetBytes int64) int64 {
	return targetBytes / AvgLineSize
}

type Stats struct {
	Records int64 `json:"records"`
	Invalid int64 `json:"invalid"`
	Bytes   int64 `json:"bytes"`
}

type options struct {
	rng *rand.Rand
}

type Option func(*options)

// WithSeed makes the output reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// Generate writes records lines to w. Each line is malformed with probability
// errorRate, which must lie in [0, 1].
func Generate(ctx context.Context, w io.Writer, records int64, errorRate float64, opts ...Option) (Stats, error) {
	if errorRate < 0 || errorRate > 1 {
		return Stats{}, fmt.Errorf("error rate must be between 0 and 1, got %v", errorRate)
	}
	if records < 0 {
		return Stats{}, fmt.Errorf("records must not be negative, got %d", records)
	}

	o := &options{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	for _, opt := range opts {
		opt(o)
	}

	bw := bufio.NewWriterSize(w, 256*1024)
	stats := Stats{}
	for i := int64(0); i < records; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}

		var line string
		if errorRate > 0 && o.rng.Float64() < errorRate {
			line = invalidLine(o.rng)
			stats.Invalid++
		} else {
			line = validLine(o.rng)
		}

		n, err := bw.WriteString(line + "\n")
		stats.Bytes += int64(n)
		if err != nil {
			return stats, fmt.Errorf("failed to write line %d: %w", i+1, err)
		}
		stats.Records++
	}

	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("failed to flush output: %w", err)
	}
	return stats, nil
}

// GenerateFile writes the file next to path and renames it into place, so a
// concurrent reader never sees a half-written source.
func GenerateFile(ctx context.Context, path string, records int64, errorRate float64, opts ...Option) (Stats, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Stats{}, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return Stats{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	start := time.Now()
	stats, genErr := Generate(ctx, tmp, records, errorRate, opts...)
	if genErr == nil {
		genErr = tmp.Sync()
	}
	if err := errors.Join(genErr, tmp.Close()); err != nil {
		return stats, fmt.Errorf("failed to generate %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return stats, fmt.Errorf("failed to move generated file into place: %w", err)
	}

	slog.Info("Generated client file",
		"path", path,
		"records", stats.Records,
		"invalid", stats.Invalid,
		"bytes", stats.Bytes,
		"took", time.Since(start),
	)
	return stats, nil
}

func validLine(rng *rand.Rand) string {
	fields := []string{
		pick(rng, firstNames),
		pick(rng, lastNames),
		strconv.Itoa(1_000_000 + rng.IntN(99_000_000)),
		pick(rng, statuses),
		randomDate(rng),
		strconv.FormatBool(rng.IntN(2) == 0),
	}
	// a third of the lines leave the secondary flag out
	if rng.IntN(3) != 0 {
		fields = append(fields, strconv.FormatBool(rng.IntN(2) == 0))
	}
	return strings.Join(fields, "|")
}

func invalidLine(rng *rand.Rand) string {
	fields := strings.Split(validLine(rng), "|")

	switch rng.IntN(5) {
	case 0:
		fields = fields[:4]
	case 1:
		fields[2] = "X" + fields[2][1:]
	case 2:
		fields[4] = "13/45/2023"
	case 3:
		fields[3] = ""
	default:
		fields[0] = strings.Repeat(fields[0], 40)
	}
	return strings.Join(fields, "|")
}

func randomDate(rng *rand.Rand) string {
	days := int(maxDate.Sub(minDate).Hours() / 24)
	d := minDate.AddDate(0, 0, rng.IntN(days+1))
	return d.Format("01/02/2006")
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}
