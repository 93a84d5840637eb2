// Package log provides slog logger construction for the CLI and a
// handler wrapper that keeps log output readable when components log
// scraped HTML or OCR text at debug level.
package log
