package config

import "errors"

// Configuration validation errors. These are package-level sentinels so
// callers can use errors.Is while still getting a readable message.
var (
	// ErrNoLocations is returned when no dining locations are configured
	// and no default could be applied.
	ErrNoLocations = errors.New("no locations specified: provide locations via flags or config file")

	// ErrInvalidDate is returned when the date does not parse as
	// MM-DD-YYYY, the only format the menu API accepts.
	ErrInvalidDate = errors.New("invalid date: must be MM-DD-YYYY")

	// ErrInvalidConcurrency is returned when the worker-pool ceiling is
	// not positive. Zero concurrency would process no locations at all.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when a request timeout is not
	// positive. A zero timeout would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is
	// negative. Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
