// Package ocr converts receipt images into raw text.
//
// The TextExtractor owns the preprocessing that user-submitted receipt
// photos need before OCR: EXIF orientation correction, grayscale
// conversion, a median denoise pass, and upscaling of small photos. The
// actual character recognition is delegated to a Backend, a black-box
// image-bytes-to-text function; any backend satisfying the contract is
// substitutable, and an always-failing Unavailable backend is provided
// for builds or hosts without an OCR tool.
package ocr
