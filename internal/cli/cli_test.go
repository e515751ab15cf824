package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/client-ingest/internal/checkpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	cmd.SetContext(t.Context())

	err := cmd.Execute()
	return out.String(), err
}

func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("APP_ENV", "test")
	t.Setenv("ENV_PATH", filepath.Join(dir, "missing.env"))
	t.Setenv("INGEST_CONFIG", "")
	t.Setenv("INPUT_FILE", "")
	t.Setenv("CHECKPOINT_FILE", filepath.Join(dir, "processing.checkpoint"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FILE", "")
	return dir
}

func TestGenerateAndProcess(t *testing.T) {
	dir := isolateEnv(t)
	t.Setenv("STORAGE_TYPE", "in_mem")
	input := filepath.Join(dir, "clients.dat")

	out, err := execute(t, "generate", "--size", "5kb", "--error-rate", "0.2", "--seed", "11", "--output", input)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 51 records")

	out, err = execute(t, "process", "--input", input, "--batch-size", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "lines read:       51")
	assert.NoFileExists(t, filepath.Join(dir, "processing.checkpoint"))
}

func TestProcess_MissingInput(t *testing.T) {
	dir := isolateEnv(t)
	t.Setenv("STORAGE_TYPE", "in_mem")

	_, err := execute(t, "process", "--input", filepath.Join(dir, "nope.dat"))

	assert.ErrorContains(t, err, "source file not found")
}

func TestProcess_RequiresStorageType(t *testing.T) {
	dir := isolateEnv(t)
	t.Setenv("STORAGE_TYPE", "")
	input := filepath.Join(dir, "clients.dat")
	require.NoError(t, os.WriteFile(input, []byte("Jane|Doe|1|ACT|01/15/2023|true\n"), 0o644))

	_, err := execute(t, "process", "--input", input)

	assert.ErrorContains(t, err, "STORAGE_TYPE")
}

func TestCheckpointShowAndClear(t *testing.T) {
	dir := isolateEnv(t)
	path := filepath.Join(dir, "processing.checkpoint")
	require.NoError(t, checkpoint.NewFileStore(path).Save(1500))

	out, err := execute(t, "checkpoint", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "1500 lines processed")

	out, err = execute(t, "checkpoint", "clear")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Cleared"))
	assert.NoFileExists(t, path)

	out, err = execute(t, "checkpoint", "show", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No checkpoint")
}

func TestGenerate_InvalidSize(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "generate", "--size", "lots", "--output", filepath.Join(t.TempDir(), "x.dat"))

	assert.ErrorContains(t, err, "invalid size format")
}
