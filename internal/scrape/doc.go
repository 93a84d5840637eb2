// Package scrape runs per-location menu fetches through a bounded
// worker pool and folds the outcomes into a nutrition dictionary.
package scrape
