// Package log provides category-tagged structured logging for mimic.
//
// Logging is disabled until Init is called with a file path: the terminal is
// owned by the game UI, so nothing may be written to stdout or stderr while a
// program is running.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Category groups log lines by subsystem.
type Category string

const (
	CatAudio  Category = "audio"
	CatGame   Category = "game"
	CatDB     Category = "db"
	CatConfig Category = "config"
	CatStore  Category = "store"
	CatUI     Category = "ui"
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init opens (or creates) the log file at path and routes all log output to it.
// An empty path leaves logging disabled. The returned cleanup closes the file.
func Init(path, level string) (func() error, error) {
	if path == "" {
		return func() error { return nil }, nil
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // G304: path comes from user config
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	SetOutput(f, lvl)
	return func() error {
		SetOutput(io.Discard, slog.LevelInfo)
		return f.Close()
	}, nil
}

// SetOutput replaces the log destination. Tests use it to capture output.
func SetOutput(w io.Writer, level slog.Level) {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	mu.Lock()
	logger = slog.New(h)
	mu.Unlock()
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func args(cat Category, kv []any) []any {
	return append([]any{"cat", string(cat)}, kv...)
}

// Debug logs a debug message.
func Debug(cat Category, msg string, kv ...any) {
	current().Debug(msg, args(cat, kv)...)
}

// Info logs an informational message.
func Info(cat Category, msg string, kv ...any) {
	current().Info(msg, args(cat, kv)...)
}

// Warn logs a recoverable problem.
func Warn(cat Category, msg string, kv ...any) {
	current().Warn(msg, args(cat, kv)...)
}

// Error logs a failure.
func Error(cat Category, msg string, kv ...any) {
	current().Error(msg, args(cat, kv)...)
}

// ErrorErr logs a failure together with its error value.
func ErrorErr(cat Category, msg string, err error, kv ...any) {
	current().Error(msg, args(cat, append(kv, "error", err))...)
}
