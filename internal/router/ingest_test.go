package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/client-ingest/internal/apperr"
	"github.com/DjordjeVuckovic/client-ingest/internal/checkpoint"
	"github.com/DjordjeVuckovic/client-ingest/internal/metrics"
	"github.com/DjordjeVuckovic/client-ingest/internal/processor"
	"github.com/DjordjeVuckovic/client-ingest/internal/storage/in_mem"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	e      *echo.Echo
	cfg    *processor.Config
	storer *in_mem.InMemStorer
	router *IngestRouter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	cfg := &processor.Config{
		InputFile:      filepath.Join(dir, "input", "clients.dat"),
		CheckpointFile: filepath.Join(dir, "processing.checkpoint"),
	}
	cfg.ApplyDefaults()

	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	storer := in_mem.NewInMemStorer()
	r := NewIngestRouter(e, t.Context(), cfg, storer, WithMetrics(metrics.NewIngest(prometheus.NewRegistry())))
	r.Bind()

	return &fixture{e: e, cfg: cfg, storer: storer, router: r}
}

func (f *fixture) post(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestStartProcessing_MissingFileIsConflict(t *testing.T) {
	f := newFixture(t)

	rec := f.post("/api/v1/start-processing", "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body["hint"], "generate-file")
}

func TestGenerateThenProcess(t *testing.T) {
	f := newFixture(t)

	rec := f.post("/api/v1/generate-file", `{"size":"10kb","errorRate":0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	gen := decode(t, rec)
	assert.Equal(t, "success", gen["status"])
	assert.Equal(t, float64(102), gen["records"])

	rec = f.post("/api/v1/start-processing", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp StartProcessingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "processing completed", resp.Status)
	assert.Equal(t, int64(102), resp.Summary.Inserted)
	assert.Equal(t, 102, f.storer.Len())
	assert.NoFileExists(t, f.cfg.CheckpointFile)
}

func TestGenerateFile_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad size", `{"size":"huge"}`},
		{"missing size", `{}`},
		{"error rate out of range", `{"size":"1kb","errorRate":2}`},
		{"not json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.post("/api/v1/generate-file", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid request body", decode(t, rec)["error"])
			assert.NoFileExists(t, f.cfg.InputFile)
		})
	}
}

func TestStartProcessing_RejectsConcurrentRun(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(f.cfg.InputFile), 0o755))
	require.NoError(t, os.WriteFile(f.cfg.InputFile, []byte("Jane|Doe|1|ACT|01/15/2023|true\n"), 0o644))

	f.router.busy.Lock()
	rec := f.post("/api/v1/start-processing", "")
	f.router.busy.Unlock()

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Zero(t, f.storer.Len())
}

func TestStartProcessing_CountsRejectedLines(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(f.cfg.InputFile), 0o755))
	content := "Jane|Doe|1|ACT|01/15/2023|true\nJohn|Roe|abc|ACT|01/15/2023|false\n"
	require.NoError(t, os.WriteFile(f.cfg.InputFile, []byte(content), 0o644))

	rec := f.post("/api/v1/start-processing", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp StartProcessingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Summary.Inserted)
	assert.Equal(t, int64(1), resp.Summary.Failed)
	assert.Equal(t, 1, resp.Summary.FailedLinesLogged)
}

func TestGenerateFile_ClearsStaleCheckpoint(t *testing.T) {
	f := newFixture(t)
	store := checkpoint.NewFileStore(f.cfg.CheckpointFile)
	require.NoError(t, store.Save(50))

	rec := f.post("/api/v1/generate-file", `{"size":"5kb","errorRate":0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, store.Exists())

	rec = f.post("/api/v1/start-processing", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp StartProcessingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Summary.Skipped)
	assert.Equal(t, int64(51), resp.Summary.Inserted)
}
