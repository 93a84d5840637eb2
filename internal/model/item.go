package model

// DefaultUnit is the quantity unit assumed when a receipt line does not
// print one, which is almost always the case.
const DefaultUnit = "each"

// RawLineItem is one food line parsed from receipt text.
// It exists only within a single pipeline run and is never shared across
// goroutines. Quantity is always positive; the parser rejects lines
// where it cannot read a positive decimal.
type RawLineItem struct {
	// Name is the food name, lowercased and trimmed.
	Name string `json:"name"`

	// Quantity is the purchased amount. Always > 0.
	Quantity float64 `json:"quantity"`

	// Unit is the quantity unit. Defaults to DefaultUnit because receipts
	// rarely print units explicitly.
	Unit string `json:"unit"`
}

// EnrichedItem is a receipt line item after nutrition resolution.
// Items whose resolution failed are dropped from pipeline output rather
// than retained with zeroed nutrition, so Resolved is true for every
// item the pipeline returns; the field exists so partially assembled
// items are distinguishable inside the pipeline.
type EnrichedItem struct {
	RawLineItem
	NutritionPerServing

	// Resolved indicates nutrition lookup succeeded for this item.
	Resolved bool `json:"resolved"`
}
