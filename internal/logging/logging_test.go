package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLogFilePath(t *testing.T) {
	start := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	got := LogFilePath("logs", "blastmap", start)
	if !strings.Contains(got, "blastmap.20260314_150926.log") {
		t.Errorf("unexpected log file path: %s", got)
	}
}

func TestManager_LoggerBeforeSetup(t *testing.T) {
	m := NewManager()
	if m.Logger() == nil {
		t.Fatal("expected a usable logger before Setup")
	}
}

func TestManager_SetupWritesToFile(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager()
	m.Setup(&buf, "debug", "")

	m.Logger().Info("test message", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "test message") {
		t.Errorf("expected message in file output, got: %s", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("expected attribute in file output, got: %s", out)
	}
}

func TestManager_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager()
	m.Setup(&buf, "warn", "")

	m.Logger().Debug("should be dropped")
	m.Logger().Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Errorf("debug message leaked through warn level: %s", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestFanout_NilHandlersFiltered(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	f := newFanout(nil, slog.NewTextHandler(&buf, opts), nil)

	slog.New(f).Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected record to reach surviving handler")
	}
}

func TestEventLogger_FieldPairs(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	l := NewEventLogger(zl)

	l.Info("computed", "zones", 5, "strategy", "grid")

	out := buf.String()
	for _, want := range []string{`"zones":5`, `"strategy":"grid"`, `"computed"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output, got: %s", want, out)
		}
	}
}

func TestEventLogger_OddPairsIgnored(t *testing.T) {
	var buf bytes.Buffer
	l := NewEventLogger(zerolog.New(&buf))

	// Trailing key without value must not panic.
	l.Debug("msg", "dangling")
	if buf.Len() == 0 {
		// Debug level is enabled by default on a raw zerolog logger.
		t.Error("expected output for debug message")
	}
}
