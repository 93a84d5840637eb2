package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestTruncateHandler tests attribute truncation.
func TestTruncateHandler(t *testing.T) {
	t.Parallel()

	t.Run("passes short values through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTruncateHandler(
			slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}), 32))

		logger.Info("fetch complete", "location", "Earhart")

		if !strings.Contains(buf.String(), "Earhart") {
			t.Errorf("expected attribute value in output, got %q", buf.String())
		}
		if strings.Contains(buf.String(), truncationMarker) {
			t.Error("short value should not be truncated")
		}
	})

	t.Run("truncates long string values", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTruncateHandler(
			slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}), 32))

		logger.Debug("page body", "html", strings.Repeat("<tr>", 100))

		out := buf.String()
		if !strings.Contains(out, truncationMarker) {
			t.Errorf("expected truncation marker in output, got %q", out)
		}
		if strings.Contains(out, strings.Repeat("<tr>", 100)) {
			t.Error("full value should not appear in output")
		}
	})

	t.Run("leaves non-string attributes alone", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTruncateHandler(
			slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}), 8))

		logger.Info("scrape done", "totalItems", 12345678901)

		if !strings.Contains(buf.String(), "12345678901") {
			t.Errorf("expected numeric attribute untouched, got %q", buf.String())
		}
	})

	t.Run("truncates on rune boundary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTruncateHandler(
			slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}), 5))

		// Four-byte runes; a byte-offset cut at 5 would split the second rune.
		logger.Info("name", "value", "🍎🍎🍎")

		if !strings.Contains(buf.String(), "🍎"+truncationMarker) {
			t.Errorf("expected clean rune-boundary cut, got %q", buf.String())
		}
	})
}

// TestNewLogger tests level selection.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("default level suppresses info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)
		logger.Info("should not appear")
		logger.Warn("should appear")

		out := buf.String()
		if strings.Contains(out, "should not appear") {
			t.Error("info logged at non-verbose level")
		}
		if !strings.Contains(out, "should appear") {
			t.Error("warning missing at non-verbose level")
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)
		logger.Debug("debug message")

		if !strings.Contains(buf.String(), "debug message") {
			t.Error("debug missing at verbose level")
		}
	})
}
