// Package logging wraps log/slog with the small amount of structure this
// service needs: leveled JSON or text output, optional append-only file
// logging, and per-component child loggers.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds logging configuration.
type Config struct {
	Level      string // "debug", "info", "warn", "error"
	Format     string // "json" or "text"
	EnableFile bool   // mirror output into FilePath
	FilePath   string
}

// DefaultConfig returns the configuration used when nothing is set in the
// environment.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "json",
		EnableFile: false,
		FilePath:   "logs/app.log",
	}
}

// Logger is a thin wrapper around slog.Logger that owns the optional log
// file handle so callers can Close it on shutdown.
type Logger struct {
	slogger *slog.Logger
	file    *os.File
}

// New creates a Logger writing to stdout and, when enabled, to the
// configured file.
func New(cfg Config) (*Logger, error) {
	var writer io.Writer = os.Stdout
	l := &Logger{}

	if cfg.EnableFile {
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("logging: file path is required for file logging")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("logging: create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: open log file: %w", err)
		}
		l.file = f
		writer = io.MultiWriter(os.Stdout, f)
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewJSONHandler(writer, opts)
	}
	l.slogger = slog.New(handler)
	return l, nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// WithComponent returns a child logger tagging every entry with the
// component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{slogger: l.slogger.With(slog.String("component", name)), file: nil}
}

// WithRecord returns a child logger tagging every entry with the datastore
// record id being processed.
func (l *Logger) WithRecord(id string) *Logger {
	return &Logger{slogger: l.slogger.With(slog.String("record_id", id)), file: nil}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(slog.LevelDebug, msg, nil, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(slog.LevelInfo, msg, nil, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(slog.LevelWarn, msg, nil, fields) }

func (l *Logger) Error(msg string, err error, fields ...Field) {
	l.log(slog.LevelError, msg, err, fields)
}

// Fatal logs at error level and exits. Only for unrecoverable startup
// failures.
func (l *Logger) Fatal(msg string, err error, fields ...Field) {
	l.log(slog.LevelError, msg, err, fields)
	l.Close()
	os.Exit(1)
}

func (l *Logger) log(level slog.Level, msg string, err error, fields []Field) {
	attrs := make([]any, 0, len(fields)+1)
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	l.slogger.Log(context.Background(), level, msg, attrs...)
}

// Field is one structured key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field                { return Field{Key: key, Value: value} }
func Int(key string, value int) Field               { return Field{Key: key, Value: value} }
func Float64(key string, value float64) Field       { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field             { return Field{Key: key, Value: value} }
func Duration(key string, v time.Duration) Field    { return Field{Key: key, Value: v.String()} }
func Time(key string, value time.Time) Field        { return Field{Key: key, Value: value} }
func Any(key string, value any) Field               { return Field{Key: key, Value: value} }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *Logger {
	return &Logger{slogger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
