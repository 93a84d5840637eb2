// Package menu fetches dining-court menus and per-item nutrition facts
// from the dining menu API, and assembles per-location scrape results.
package menu
