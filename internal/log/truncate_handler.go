package log

import (
	"context"
	"io"
	"log/slog"
	"unicode/utf8"
)

// DefaultMaxAttrLen is the maximum length of a string attribute value
// before truncation. Scraped HTML pages and OCR dumps run to megabytes;
// anything past this length adds noise, not information.
const DefaultMaxAttrLen = 512

// truncationMarker is appended to truncated attribute values.
const truncationMarker = "...(truncated)"

// TruncateHandler wraps an slog.Handler and caps the length of string
// attribute values before passing records on. It works with any
// underlying handler (text, JSON) and integrates with standard slog APIs.
type TruncateHandler struct {
	// handler is the underlying slog handler that receives the records.
	handler slog.Handler

	// maxLen is the maximum string attribute value length in bytes.
	maxLen int
}

// NewTruncateHandler creates a TruncateHandler wrapping the given
// handler. If handler is nil, slog.Default().Handler() is used. If
// maxLen is not positive, DefaultMaxAttrLen is used.
func NewTruncateHandler(handler slog.Handler, maxLen int) *TruncateHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxAttrLen
	}
	return &TruncateHandler{handler: handler, maxLen: maxLen}
}

// Enabled reports whether the handler handles records at the given
// level. It delegates to the underlying handler.
func (h *TruncateHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle truncates the record's string attributes and passes the record
// to the underlying handler.
func (h *TruncateHandler) Handle(ctx context.Context, r slog.Record) error {
	truncated := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		truncated.AddAttrs(h.truncateAttr(a))
		return true
	})
	return h.handler.Handle(ctx, truncated)
}

// WithAttrs returns a new handler with the given attributes added,
// truncated first.
func (h *TruncateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = h.truncateAttr(a)
	}
	return &TruncateHandler{handler: h.handler.WithAttrs(out), maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *TruncateHandler) WithGroup(name string) slog.Handler {
	return &TruncateHandler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// truncateAttr caps a single attribute, recursively handling groups.
func (h *TruncateHandler) truncateAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			out[i] = h.truncateAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}
	s := a.Value.String()
	if len(s) <= h.maxLen {
		return a
	}

	// Cut on a rune boundary so truncation never produces invalid UTF-8.
	cut := h.maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return slog.String(a.Key, s[:cut]+truncationMarker)
}

// NewLogger creates a *slog.Logger for the CLI.
//
// Parameters:
//   - w: the io.Writer to write log output to (typically os.Stderr)
//   - verbose: if true, sets the level to Debug; otherwise Warn
//
// The returned logger truncates oversized string attributes so debug
// logging of page bodies and OCR output stays readable.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewTruncateHandler(textHandler, DefaultMaxAttrLen))
}
