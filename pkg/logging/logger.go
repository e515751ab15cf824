// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// ParseLevel maps debug|info|warn|error to a slog level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// Setup installs the default logger: text on stderr and, when logFile is set,
// JSON appended to that file. The returned func closes the file.
func Setup(level slog.Level, logFile string) (func() error, error) {
	stderrHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	if logFile == "" {
		slog.SetDefault(slog.New(stderrHandler))
		return func() error { return nil }, nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.SetDefault(slog.New(stderrHandler))
		return func() error { return nil }, fmt.Errorf("failed to open log file %s: %w", logFile, err)
	}

	slog.SetDefault(NewWithWriters(os.Stderr, file, level))
	return file.Close, nil
}

// SetupEnv reads LOG_LEVEL and LOG_FILE. An unknown level falls back to info.
func SetupEnv() func() error {
	level, err := ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		slog.Warn("Falling back to info level", "error", err)
	}

	cleanup, err := Setup(level, os.Getenv("LOG_FILE"))
	if err != nil {
		slog.Error("Failed to open log file, using stderr only", "error", err)
	}
	return cleanup
}

func NewWithWriters(stderr, file io.Writer, level slog.Level) *slog.Logger {
	stderrHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(slogmulti.Fanout(stderrHandler, fileHandler))
}
