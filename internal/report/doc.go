// Package report writes scrape reports in JSON and Markdown formats.
package report
