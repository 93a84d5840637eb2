package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These mirror the informal tolerances of
// the remote menu API and the behavior of the nutrition site scraper.
const (
	// DefaultMenuAPIBaseURL is the dining menu API root. Menus live at
	// {base}/locations/{name}/{date} and item facts at {base}/items/{id}.
	DefaultMenuAPIBaseURL = "https://api.hfs.purdue.edu/menus/v2"

	// DefaultNutritionSearchURL is the nutrition search site root used
	// for by-name lookups when the menu API has no stable item ID.
	DefaultNutritionSearchURL = "https://www.nutritionvalue.org"

	// DefaultConcurrency is the number of dining locations scraped in
	// parallel. Five keeps within the remote API's informal rate
	// tolerance while still covering a campus in a few seconds.
	DefaultConcurrency = 5

	// DefaultTimeout bounds one menu-payload fetch. A timed-out fetch is
	// treated the same as a failed one and never blocks the batch.
	DefaultTimeout = 10 * time.Second

	// DefaultItemTimeout bounds one per-item nutrition fetch. Item
	// fetches are small JSON bodies, so the bound is tighter than the
	// menu fetch.
	DefaultItemTimeout = 5 * time.Second

	// DefaultUserAgent identifies the scraper in HTTP requests so
	// service operators can recognize the traffic in their logs.
	DefaultUserAgent = "NutritionTracker/1.0 (+https://github.com/abhiatluri/NutritionTracker)"

	// DefaultMaxBodySize limits how much of a response body is read.
	// 5MB covers any menu payload or nutrition page while preventing
	// memory exhaustion from an unexpectedly large response.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// MenuDateLayout is the date format the menu API accepts (MM-DD-YYYY).
	MenuDateLayout = "01-02-2006"

	// AppName is the application name used for XDG directory paths.
	AppName = "nutritiontracker"
)

// DefaultLocations is the default set of dining locations scraped when
// neither the config file nor the command line supplies one.
func DefaultLocations() []string {
	return []string{"Earhart", "Ford", "Hillenbrand", "Wiley", "Windsor"}
}

// Config holds all options for a scrape or receipt run. It is populated
// from CLI flags and the optional config file, then passed through the
// application by dependency injection rather than global state.
type Config struct {
	// MenuAPIBaseURL is the dining menu API root URL.
	MenuAPIBaseURL string

	// NutritionSearchURL is the nutrition search site root URL.
	NutritionSearchURL string

	// Locations is the list of dining locations to scrape.
	Locations []string

	// Date is the menu date in MM-DD-YYYY format. Defaults to today.
	Date string

	// Concurrency is the maximum number of locations scraped in parallel.
	Concurrency int

	// Timeout bounds one menu-payload HTTP request.
	Timeout time.Duration

	// ItemTimeout bounds one per-item nutrition HTTP request.
	ItemTimeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Zero means DefaultMaxBodySize.
	MaxBodySize int64

	// Verbose enables slog.LevelDebug output. When false, only warnings
	// and errors are logged.
	Verbose bool

	// JSONReport selects the JSON envelope output format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects the Markdown summary output format.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report. When empty, the
	// report goes to stdout.
	ReportFile string

	// ConfigFilePath is an explicit config file path. When empty, the
	// loader searches for .nutritiontracker in the current directory and
	// then the home directory.
	ConfigFilePath string

	// DBDir is the directory holding the SQLite food store. When
	// SaveToDB is set, scrape and receipt results are persisted there.
	DBDir string

	// SaveToDB indicates whether results are written to the food store.
	SaveToDB bool

	// TesseractPath is the path to the tesseract binary used by the OCR
	// backend. When empty, the binary is looked up on PATH.
	TesseractPath string
}

// NewConfig creates a Config with default values. Many defaults are
// non-zero, so zero-value construction is not enough.
func NewConfig() *Config {
	return &Config{
		MenuAPIBaseURL:     DefaultMenuAPIBaseURL,
		NutritionSearchURL: DefaultNutritionSearchURL,
		Locations:          DefaultLocations(),
		Date:               time.Now().Format(MenuDateLayout),
		Concurrency:        DefaultConcurrency,
		Timeout:            DefaultTimeout,
		ItemTimeout:        DefaultItemTimeout,
		UserAgent:          DefaultUserAgent,
		MaxBodySize:        DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for the application.
// On Linux this is ~/.local/share/nutritiontracker.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns a specific error
// describing the first invalid field. It is called once after CLI
// parsing, before any network work begins.
func (c *Config) Validate() error {
	if len(c.Locations) == 0 {
		return ErrNoLocations
	}
	if _, err := time.Parse(MenuDateLayout, c.Date); err != nil {
		return ErrInvalidDate
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Timeout <= 0 || c.ItemTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
