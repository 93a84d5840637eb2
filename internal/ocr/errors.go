package ocr

import "errors"

// OCR errors. ErrNotExtracted is an expected outcome, not a fault:
// receipt photos are user-submitted and variable in quality, and callers
// must treat a failed extraction as a normal empty result.
var (
	// ErrNotExtracted is returned when the image cannot be decoded or
	// OCR yields no usable text. Extraction is never retried; OCR
	// quality does not improve by repetition without changing the input.
	ErrNotExtracted = errors.New("no text extracted from image")

	// ErrBackendUnavailable is returned by the Unavailable backend when
	// no OCR tool was configured at composition time.
	ErrBackendUnavailable = errors.New("ocr backend unavailable")
)
