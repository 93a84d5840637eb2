// Package receipt turns a photographed receipt into enriched nutrition
// records. The parser extracts (name, quantity, unit) tuples from OCR
// text with a deliberately low-precision, high-tolerance policy: missed
// items are acceptable, false positives on receipt boilerplate are not.
// The pipeline composes extraction, parsing, and per-item nutrition
// resolution with per-item failure isolation: one bad line never
// discards the rest of the receipt.
package receipt
