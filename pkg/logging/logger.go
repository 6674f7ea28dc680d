// Package logging builds the structured slog loggers used across lattice.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the slog handler.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Components that tag their log lines.
const (
	ComponentDriver = "driver"
	ComponentLayout = "layout"
	ComponentDemo   = "demo"
)

// ParseLevel maps a level name to a slog level. Unknown names are an
// error; the empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelInfo, "":
		return slog.LevelInfo, nil
	case LevelWarn, "warning":
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger is a structured logger for lattice components
type Logger struct {
	*slog.Logger
}

// New creates a logger writing to w with the given handler format.
func New(w io.Writer, component string, level slog.Level, format Format) *Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case FormatText:
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler).With(
		slog.String("component", component),
		slog.String("system", "lattice"),
	)
	return &Logger{Logger: logger}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

// OpenFile opens path for appending, creating parent directories.
func OpenFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// WithComponent returns a logger tagged with a different component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("component", component))}
}

// WithSession returns a logger with session-specific fields
func (l *Logger) WithSession(sessionID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("session_id", sessionID))}
}

// WithFrame returns a logger tagged with a frame number.
func (l *Logger) WithFrame(frame uint64) *Logger {
	return &Logger{Logger: l.Logger.With(slog.Uint64("frame", frame))}
}

// LayoutFailed logs a layout pass that kept the previous regions.
func (l *Logger) LayoutFailed(err error, code string) {
	l.Error("layout failed, keeping previous regions",
		slog.String("error_code", code),
		slog.String("error", err.Error()),
	)
}

// FrameRendered logs per-frame statistics.
func (l *Logger) FrameRendered(events, dirtyKeys, cells int, full bool) {
	l.Debug("frame rendered",
		slog.Int("events", events),
		slog.Int("dirty_keys", dirtyKeys),
		slog.Int("cells_written", cells),
		slog.Bool("full_redraw", full),
	)
}
