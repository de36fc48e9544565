// Package logging wires slog to the process's console, file, and optional
// Graylog outputs.
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

	"github.com/Graylog2/go-gelf/gelf"
)

// LogFilePath builds a log file path using OS-appropriate path separators.
func LogFilePath(logsDir, serviceName string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", serviceName, sessionStart.Format("20060102_150405")),
	)
}

// Manager owns the process logger and its output fan-out.
type Manager struct {
	logger *slog.Logger

	gelfWriter *gelf.Writer
}

// NewManager creates an unconfigured logging manager. Logger() returns the
// default slog logger until Setup is called.
func NewManager() *Manager {
	return &Manager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes logging with console output, an optional file, and an
// optional GELF sink. An empty gelfAddr disables Graylog shipping; a GELF
// dial failure is reported on the console logger but never fatal.
func (m *Manager) Setup(file io.Writer, level string, gelfAddr string) {
	lvl := parseLevel(level)

	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	handlers := []slog.Handler{slog.NewTextHandler(os.Stdout, opts)}

	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, opts))
	}

	if gelfAddr != "" {
		w, err := gelf.NewWriter(gelfAddr)
		if err != nil {
			slog.New(handlers[0]).Warn("Failed to connect GELF writer", "address", gelfAddr, "error", err)
		} else {
			m.gelfWriter = w
			handlers = append(handlers, slog.NewJSONHandler(w, opts))
		}
	}

	m.logger = slog.New(newFanout(handlers...))
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *Manager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Close shuts down the GELF connection if one was opened.
func (m *Manager) Close() error {
	if m.gelfWriter != nil {
		return m.gelfWriter.Close()
	}
	return nil
}

// fanout duplicates every record to all child handlers.
type fanout struct {
	children []slog.Handler
}

func newFanout(handlers ...slog.Handler) *fanout {
	valid := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			valid = append(valid, h)
		}
	}
	return &fanout{children: valid}
}

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.children {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	// One failing sink must not starve the others.
	for _, h := range f.children {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	children := make([]slog.Handler, len(f.children))
	for i, h := range f.children {
		children[i] = h.WithAttrs(attrs)
	}
	return &fanout{children: children}
}

func (f *fanout) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	children := make([]slog.Handler, len(f.children))
	for i, h := range f.children {
		children[i] = h.WithGroup(name)
	}
	return &fanout{children: children}
}
