package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"os"
	"strings"

	_ "image/gif"  // receipt screenshots occasionally arrive as GIF
	_ "image/jpeg" // phone cameras produce JPEG
)

// DefaultMinWidth is the width below which receipt images are upscaled
// before OCR.
const DefaultMinWidth = 1000

// TextExtractor converts a receipt image into raw text. It loads the
// image, corrects EXIF orientation, denoises and grayscales it, and
// hands the result to the configured OCR backend. The extractor holds
// no per-run state and is safe for concurrent use.
type TextExtractor struct {
	// backend performs the actual character recognition.
	backend Backend

	// logger is used for structured logging during extraction.
	logger *slog.Logger

	// minWidth is the width threshold below which images are upscaled.
	minWidth int
}

// ExtractorOption configures a TextExtractor.
type ExtractorOption func(*TextExtractor)

// WithLogger sets a custom logger for the extractor.
func WithLogger(logger *slog.Logger) ExtractorOption {
	return func(e *TextExtractor) {
		e.logger = logger
	}
}

// WithMinWidth sets the upscale threshold. Non-positive values keep the
// default.
func WithMinWidth(w int) ExtractorOption {
	return func(e *TextExtractor) {
		if w > 0 {
			e.minWidth = w
		}
	}
}

// NewTextExtractor creates a TextExtractor using the given backend.
func NewTextExtractor(backend Backend, opts ...ExtractorOption) *TextExtractor {
	e := &TextExtractor{
		backend:  backend,
		minWidth: DefaultMinWidth,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Extract reads the image at imagePath and returns the recognized text.
// It returns ErrNotExtracted when the image cannot be read or decoded,
// when the backend fails, or when OCR yields no text. All of these are
// expected outcomes for user-submitted photos; callers treat them as an
// empty receipt, not a fault. Extraction is never retried.
func (e *TextExtractor) Extract(ctx context.Context, imagePath string) (string, error) {
	raw, err := os.ReadFile(imagePath) //nolint:gosec // User-provided image path is intentional
	if err != nil {
		return "", errors.Join(ErrNotExtracted, err)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		e.logger.Debug("image decode failed", "path", imagePath, "error", err)
		return "", errors.Join(ErrNotExtracted, err)
	}

	orientation := readOrientation(raw)
	e.logger.Debug("image decoded",
		"path", imagePath,
		"format", format,
		"orientation", orientation,
	)

	prepared := e.preprocess(img, orientation)

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, prepared); err != nil {
		return "", errors.Join(ErrNotExtracted, err)
	}

	text, err := e.backend.Recognize(ctx, encoded.Bytes())
	if err != nil {
		e.logger.Debug("ocr backend failed", "path", imagePath, "error", err)
		return "", errors.Join(ErrNotExtracted, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNotExtracted
	}

	e.logger.Debug("text extracted", "path", imagePath, "text", text)
	return text, nil
}

// preprocess applies the fixed preprocessing chain: orientation,
// grayscale, median denoise, and conditional upscale. Raw photographs
// of receipts carry enough sensor noise to measurably degrade OCR, so
// the chain is not optional.
func (e *TextExtractor) preprocess(img image.Image, orientation int) *image.Gray {
	oriented := orient(img, orientation)
	gray := grayscale(oriented)
	denoised := medianFilter(gray)
	return upscale(denoised, e.minWidth)
}
