package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	// Log level mapping
	logLevelMap = map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
)

// loggers bundles the CLI's main logger and its query log
type loggers struct {
	main    *slog.Logger
	queries *slog.Logger
	closers []io.Closer
}

// Close closes the log files
func (l *loggers) Close() error {
	var first error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// initLogging writes JSON logs to the XDG cache directory. With verbose
// set, records also go to stderr as text.
func initLogging(logLevel string, verbose bool, stderr io.Writer) (*loggers, error) {
	level, ok := logLevelMap[strings.ToLower(logLevel)]
	if !ok {
		level = slog.LevelWarn // Default to WARN
	}
	if verbose && level > slog.LevelInfo {
		level = slog.LevelInfo
	}

	logDir := getXDGCacheDir()
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "dealboard.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var mainHandler slog.Handler = slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})
	if verbose {
		mainHandler = &multiHandler{
			handlers: []slog.Handler{mainHandler, slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})},
		}
	}

	queriesLogPath := filepath.Join(logDir, "dealboard-queries.log")
	queriesLogFile, err := os.OpenFile(queriesLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("failed to open queries log file: %w", err)
	}

	// Queries are always logged at INFO
	queriesHandler := slog.NewJSONHandler(queriesLogFile, &slog.HandlerOptions{Level: slog.LevelInfo})

	l := &loggers{
		main:    slog.New(mainHandler),
		queries: slog.New(queriesHandler).With("logger", "queries"),
		closers: []io.Closer{logFile, queriesLogFile},
	}
	slog.SetDefault(l.main)

	l.main.Debug("logging initialized",
		"level", level.String(),
		"log_file", logPath,
		"queries_file", queriesLogPath,
		"verbose", verbose)

	return l, nil
}

// getXDGCacheDir returns the XDG cache directory for dealboard
func getXDGCacheDir() string {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, "dealboard")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Last resort - use temp directory
		return filepath.Join(os.TempDir(), "dealboard")
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(homeDir, "Library", "Caches", "dealboard")
	}

	return filepath.Join(homeDir, ".cache", "dealboard")
}

// multiHandler implements slog.Handler to write to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}
