package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Backend recognizes text in an encoded image. Implementations receive
// PNG bytes that have already been preprocessed by the TextExtractor.
type Backend interface {
	// Recognize runs OCR over the image and returns the recognized text.
	Recognize(ctx context.Context, image []byte) (string, error)
}

// TesseractBackend runs the tesseract command-line tool over stdin and
// reads the recognized text from stdout. It holds no mutable state and
// is safe for concurrent use.
type TesseractBackend struct {
	// binary is the tesseract executable path. Empty means look up
	// "tesseract" on PATH.
	binary string
}

// NewTesseractBackend creates a backend invoking the tesseract binary at
// the given path. An empty path uses PATH lookup.
func NewTesseractBackend(binary string) *TesseractBackend {
	if binary == "" {
		binary = "tesseract"
	}
	return &TesseractBackend{binary: binary}
}

// Recognize pipes the image through tesseract and returns its stdout.
func (b *TesseractBackend) Recognize(ctx context.Context, image []byte) (string, error) {
	cmd := exec.CommandContext(ctx, b.binary, "stdin", "stdout")
	cmd.Stdin = bytes.NewReader(image)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("tesseract failed: %s: %w", detail, err)
		}
		return "", fmt.Errorf("tesseract failed: %w", err)
	}

	return stdout.String(), nil
}

// Unavailable is a Backend for compositions without an OCR tool. Every
// call fails with ErrBackendUnavailable, which the TextExtractor folds
// into its normal not-extracted outcome.
type Unavailable struct{}

// Recognize always returns ErrBackendUnavailable.
func (Unavailable) Recognize(_ context.Context, _ []byte) (string, error) {
	return "", ErrBackendUnavailable
}

// Compile-time interface checks.
var (
	_ Backend = (*TesseractBackend)(nil)
	_ Backend = Unavailable{}
)
