// Package model defines the core data structures used throughout the
// nutrition ingestion pipeline.
//
// This package contains the following main types:
//   - RawLineItem / EnrichedItem: receipt line items before and after
//     nutrition resolution
//   - NutritionPerServing: canonical nutrition fact for one food name
//   - MenuItemRecord / LocationResult: per-location scrape outcomes
//   - NutritionDictionary: the aggregate location -> food -> nutrition map
//   - ScrapeReport: the JSON-serializable scrape envelope
//
// Models live in their own package because multiple packages (receipt,
// menu, scrape, report, database) need them, and centralizing them here
// prevents import cycles. All exported types serialize to JSON for report
// output and database storage.
package model
