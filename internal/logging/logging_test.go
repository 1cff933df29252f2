package logging

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogFilePath_Format(t *testing.T) {
	start := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	got := LogFilePath("logs", "sentinel_client", start)
	want := filepath.Join("logs", "sentinel_client.20260314_150926.log")
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestParseLevel_KnownLevels(t *testing.T) {
	if parseLevel("debug") != slog.LevelDebug {
		t.Error("expected debug level")
	}
	if parseLevel("WARN") != slog.LevelWarn {
		t.Error("expected warn level")
	}
	if parseLevel("bogus") != slog.LevelInfo {
		t.Error("expected info fallback for unknown level")
	}
}

func TestSlogManager_LoggerBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	if m.Logger() == nil {
		t.Fatal("expected non-nil default logger before Setup")
	}
}

func TestSlogManager_SetupWritesToFile(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil, nil)

	m.Logger().Info("frame presented", "frame", 12)
	if !strings.Contains(buf.String(), "frame presented") {
		t.Errorf("expected log line in file writer, got %q", buf.String())
	}
}

func TestSlogManager_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "warn", nil, nil)

	m.Logger().Debug("noisy")
	if strings.Contains(buf.String(), "noisy") {
		t.Error("expected debug record to be filtered at warn level")
	}
}

func TestSlogManager_ContextProviderInjects(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil, func() []slog.Attr {
		return []slog.Attr{slog.Uint64("frame", 7)}
	})

	m.Logger().Info("tick")
	if !strings.Contains(buf.String(), "frame=7") {
		t.Errorf("expected injected frame attr, got %q", buf.String())
	}
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	)
	logger := slog.New(h)
	logger.Info("both")

	if !strings.Contains(a.String(), "both") || !strings.Contains(b.String(), "both") {
		t.Error("expected record in both handlers")
	}
}

func TestMultiHandler_FiltersNil(t *testing.T) {
	h := NewMultiHandler(nil, nil)
	if h.Enabled(context.Background(), slog.LevelError) {
		t.Error("expected no enabled handlers")
	}
}

func TestSlogManager_FlushWithoutProvider(t *testing.T) {
	m := NewSlogManager()
	if err := m.Flush(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
