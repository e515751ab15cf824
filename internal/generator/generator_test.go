package generator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/client-ingest/internal/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"2gb", 2 * 1024 * 1024 * 1024},
		{"500MB", 500 * 1024 * 1024},
		{"10kb", 10 * 1024},
		{"100b", 100},
		{"123", 123},
		{" 1.5 kb ", 1536},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSize_Invalid(t *testing.T) {
	for _, in := range []string{"", "big", "10tb", "-5mb", "0", "mb"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseSize(in)
			assert.Error(t, err)
		})
	}
}

func TestEstimateRecords(t *testing.T) {
	assert.Equal(t, int64(10), EstimateRecords(1024))
	assert.Equal(t, int64(0), EstimateRecords(99))
}

func TestGenerate_ValidLinesParse(t *testing.T) {
	var buf bytes.Buffer

	stats, err := Generate(t.Context(), &buf, 500, 0, WithSeed(1))

	require.NoError(t, err)
	assert.Equal(t, int64(500), stats.Records)
	assert.Zero(t, stats.Invalid)
	assert.Equal(t, int64(buf.Len()), stats.Bytes)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 500)
	for _, line := range lines {
		_, err := codec.Parse(line)
		assert.NoError(t, err, line)
	}
}

func TestGenerate_AllInvalid(t *testing.T) {
	var buf bytes.Buffer

	stats, err := Generate(t.Context(), &buf, 200, 1, WithSeed(7))

	require.NoError(t, err)
	assert.Equal(t, int64(200), stats.Invalid)
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		_, err := codec.Parse(line)
		assert.Error(t, err, line)
	}
}

func TestGenerate_SeedIsReproducible(t *testing.T) {
	var a, b bytes.Buffer

	_, err := Generate(t.Context(), &a, 50, 0.3, WithSeed(42))
	require.NoError(t, err)
	_, err = Generate(t.Context(), &b, 50, 0.3, WithSeed(42))
	require.NoError(t, err)

	assert.Equal(t, a.String(), b.String())
}

func TestGenerate_RejectsBadErrorRate(t *testing.T) {
	_, err := Generate(t.Context(), &bytes.Buffer{}, 1, 1.5)
	assert.ErrorContains(t, err, "error rate")
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Generate(ctx, &bytes.Buffer{}, 10, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input", "clients.dat")

	stats, err := GenerateFile(t.Context(), path, 100, 0.1, WithSeed(3))

	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, stats.Bytes, info.Size())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}
