package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/DjordjeVuckovic/client-ingest/internal/apperr"
	"github.com/DjordjeVuckovic/client-ingest/internal/checkpoint"
	"github.com/DjordjeVuckovic/client-ingest/internal/generator"
	"github.com/DjordjeVuckovic/client-ingest/internal/metrics"
	"github.com/DjordjeVuckovic/client-ingest/internal/processor"
	"github.com/DjordjeVuckovic/client-ingest/internal/storage"
	"github.com/labstack/echo/v4"
)

type GenerateFileRequest struct {
	Size      string   `json:"size" example:"500mb"`
	ErrorRate *float64 `json:"errorRate,omitempty" example:"0.05"`
}

type GenerateFileResponse struct {
	Status  string `json:"status" example:"success"`
	Path    string `json:"path"`
	Records int64  `json:"records"`
	Invalid int64  `json:"invalid"`
	Bytes   int64  `json:"bytes"`
}

type StartProcessingResponse struct {
	Status  string             `json:"status" example:"processing completed"`
	Summary *processor.Summary `json:"summary"`
}

type IngestRouter struct {
	e       *echo.Echo
	runCtx  context.Context
	cfg     *processor.Config
	storer  storage.Storer
	metrics *metrics.Ingest

	// busy admits one generation or processing run at a time.
	busy sync.Mutex
}

type IngestRouterOption func(*IngestRouter)

func WithMetrics(m *metrics.Ingest) IngestRouterOption {
	return func(r *IngestRouter) {
		r.metrics = m
	}
}

// NewIngestRouter creates the ingestion routes. Runs are bound to runCtx, not to
// the request, so a dropped client does not abort a run but shutdown does.
func NewIngestRouter(e *echo.Echo, runCtx context.Context, cfg *processor.Config, storer storage.Storer, opts ...IngestRouterOption) *IngestRouter {
	r := &IngestRouter{
		e:      e,
		runCtx: runCtx,
		cfg:    cfg,
		storer: storer,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *IngestRouter) Bind() {
	g := r.e.Group("/api/v1")
	g.POST("/generate-file", r.generateFileHandler)
	g.POST("/start-processing", r.startProcessingHandler)
}

// generateFileHandler godoc
// @Summary Generate a synthetic client file
// @Description Writes roughly `size` bytes of pipe-delimited client lines to the configured input file. A share of `errorRate` lines is malformed on purpose.
// @Tags ingest
// @Accept json
// @Produce json
// @Param request body GenerateFileRequest true "Generation parameters"
// @Success 200 {object} GenerateFileResponse
// @Failure 400 {object} apperr.ErrorResponse
// @Failure 409 {object} apperr.ErrorResponse
// @Failure 500 {object} apperr.ErrorResponse
// @Router /api/v1/generate-file [post]
func (r *IngestRouter) generateFileHandler(c echo.Context) error {
	var req GenerateFileRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("Invalid request body", err)
	}

	var details []string
	targetBytes, err := generator.ParseSize(req.Size)
	if err != nil {
		details = append(details, "size: "+err.Error())
	}
	errorRate := 0.0
	if req.ErrorRate != nil {
		errorRate = *req.ErrorRate
	}
	if errorRate < 0 || errorRate > 1 {
		details = append(details, "errorRate: must be between 0 and 1")
	}
	if len(details) > 0 {
		return apperr.NewValidation("Invalid request body", details...)
	}

	if !r.busy.TryLock() {
		return apperr.NewConflict("Another operation is in progress", "Retry once the current run finishes", nil)
	}
	defer r.busy.Unlock()

	stats, err := generator.GenerateFile(r.runCtx, r.cfg.InputFile, generator.EstimateRecords(targetBytes), errorRate)
	if err != nil {
		return apperr.NewOperation("File generation failed", err)
	}

	// positions in the old checkpoint do not refer to the new file
	store := checkpoint.NewFileStore(r.cfg.CheckpointFile)
	if store.Exists() {
		slog.Warn("Clearing checkpoint of the replaced input file", "checkpoint", store.Path(), "resumeFrom", store.Load())
		if err := store.Clear(); err != nil {
			return apperr.NewOperation("File generation failed", err)
		}
	}

	return c.JSON(http.StatusOK, GenerateFileResponse{
		Status:  "success",
		Path:    r.cfg.InputFile,
		Records: stats.Records,
		Invalid: stats.Invalid,
		Bytes:   stats.Bytes,
	})
}

// startProcessingHandler godoc
// @Summary Process the input file
// @Description Streams the configured input file into storage, resuming from the checkpoint when one exists. Responds once the run ends.
// @Tags ingest
// @Produce json
// @Success 200 {object} StartProcessingResponse
// @Failure 409 {object} apperr.ErrorResponse
// @Failure 500 {object} apperr.ErrorResponse
// @Router /api/v1/start-processing [post]
func (r *IngestRouter) startProcessingHandler(c echo.Context) error {
	if !r.busy.TryLock() {
		return apperr.NewConflict("Another operation is in progress", "Retry once the current run finishes", nil)
	}
	defer r.busy.Unlock()

	pipeline := r.cfg.Build(r.storer, processor.WithMetrics(r.metrics), processor.WithName("http-ingest"))
	summary, err := pipeline.Run(r.runCtx)
	if err != nil {
		if errors.Is(err, processor.ErrSourceNotFound) {
			return apperr.NewConflict("Input file not found", "Generate the file first with POST /api/v1/generate-file", err)
		}
		return apperr.NewOperation("Processing failed", err)
	}

	status := "processing completed"
	if summary.Interrupted {
		status = "processing interrupted"
	}
	return c.JSON(http.StatusOK, StartProcessingResponse{Status: status, Summary: summary})
}
