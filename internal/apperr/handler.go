package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Title   string `json:"title,omitempty"`
	Details any    `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			details := ve.Details
			if ve.Err != nil {
				details = append(details, ve.Err.Error())
			}
			resp := ErrorResponse{Error: ve.Message, Title: "validation error"}
			if len(details) > 0 {
				resp.Details = details
			}
			_ = c.JSON(http.StatusBadRequest, resp)
			return
		}

		var ce *ConflictError
		if errors.As(err, &ce) {
			_ = c.JSON(http.StatusConflict, ErrorResponse{Error: ce.Message, Title: "conflict", Hint: ce.Hint})
			return
		}

		var oe *OperationError
		if errors.As(err, &oe) {
			slog.Error("Operation failed", "error", err, "path", c.Path())
			_ = c.JSON(http.StatusInternalServerError, ErrorResponse{Error: oe.Message, Details: oe.Err.Error()})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, ErrorResponse{Error: msg})
			return
		}

		slog.Error("Unhandled error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
