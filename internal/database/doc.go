// Package database provides SQLite-based storage for foods, meal
// entries, and archived scrape reports.
package database
