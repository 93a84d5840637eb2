package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/abhiatluri/NutritionTracker/internal/model"
)

// Meal types accepted by InsertMealEntry. The schema enforces the same
// set with a CHECK constraint.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// Entry sources accepted by InsertMealEntry.
const (
	SourceMenu    = "menu"
	SourceReceipt = "receipt"
	SourceManual  = "manual"
)

// ErrInvalidMealType is returned for a meal type outside the accepted set.
var ErrInvalidMealType = errors.New("database: invalid meal type")

// ErrInvalidSource is returned for an entry source outside the accepted set.
var ErrInvalidSource = errors.New("database: invalid entry source")

// Store provides SQLite-based persistence for the food catalog, meal
// entries, and archived scrape reports. It manages one connection and
// creates the schema on open.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Store at the specified directory. If
// CreateIfNotExists is false and the database doesn't exist, an error
// is returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, "nutritiontracker.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite DSN: mode=rw prevents creating new files,
	// mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the path to the SQLite database file.
func (s *Store) Path() string {
	return s.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Foods is the master catalog of unique food items, per serving.
	CREATE TABLE IF NOT EXISTS foods (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		serving_size_value REAL NOT NULL,
		serving_size_unit TEXT NOT NULL,
		calories_per_serving REAL NOT NULL,
		protein_g_per_serving REAL NOT NULL,
		carbs_g_per_serving REAL NOT NULL,
		fat_g_per_serving REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_foods_name ON foods(name);

	-- Meal entries record individual food servings with quantities.
	CREATE TABLE IF NOT EXISTS meal_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		food_id INTEGER NOT NULL,
		quantity_servings REAL NOT NULL,
		meal_type TEXT CHECK(meal_type IN ('breakfast', 'lunch', 'dinner', 'snack')),
		source TEXT CHECK(source IN ('menu', 'receipt', 'manual')),
		entry_date DATE NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (food_id) REFERENCES foods(id)
	);

	CREATE INDEX IF NOT EXISTS idx_entries_user ON meal_entries(user_id);
	CREATE INDEX IF NOT EXISTS idx_entries_date ON meal_entries(entry_date);

	-- Scrape reports archive complete scrape envelopes as JSON.
	CREATE TABLE IF NOT EXISTS scrape_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scrape_date TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		total_locations INTEGER NOT NULL,
		total_food_items INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_date ON scrape_reports(scrape_date);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON scrape_reports(timestamp);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// FoodRecord is a stored food catalog row.
type FoodRecord struct {
	ID        int64
	Name      string
	Nutrition model.NutritionPerServing
	CreatedAt time.Time
}

// UpsertFood inserts a food by name or updates its nutrition if the
// name already exists, and returns the food's row ID. Idempotent: the
// same name always maps to the same row.
func (s *Store) UpsertFood(ctx context.Context, name string, n model.NutritionPerServing) (int64, error) {
	query := `
	INSERT INTO foods (name, serving_size_value, serving_size_unit,
		calories_per_serving, protein_g_per_serving, carbs_g_per_serving, fat_g_per_serving)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		serving_size_value = excluded.serving_size_value,
		serving_size_unit = excluded.serving_size_unit,
		calories_per_serving = excluded.calories_per_serving,
		protein_g_per_serving = excluded.protein_g_per_serving,
		carbs_g_per_serving = excluded.carbs_g_per_serving,
		fat_g_per_serving = excluded.fat_g_per_serving
	`

	if _, err := s.db.ExecContext(ctx, query,
		name,
		n.ServingSizeValue,
		n.ServingSizeUnit,
		n.CaloriesPerServing,
		n.ProteinG,
		n.CarbsG,
		n.FatG,
	); err != nil {
		return 0, fmt.Errorf("failed to upsert food: %w", err)
	}

	// LastInsertId is unreliable for upserts that took the update arm,
	// so resolve the row ID by name.
	var id int64
	if err := s.db.QueryRowContext(ctx, "SELECT id FROM foods WHERE name = ?", name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to resolve food id: %w", err)
	}
	return id, nil
}

// GetFood retrieves a food catalog row by name. Returns nil when the
// food is not in the catalog.
func (s *Store) GetFood(ctx context.Context, name string) (*FoodRecord, error) {
	query := `
	SELECT id, name, serving_size_value, serving_size_unit,
		calories_per_serving, protein_g_per_serving, carbs_g_per_serving, fat_g_per_serving,
		created_at
	FROM foods
	WHERE name = ?
	`

	var record FoodRecord
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&record.ID,
		&record.Name,
		&record.Nutrition.ServingSizeValue,
		&record.Nutrition.ServingSizeUnit,
		&record.Nutrition.CaloriesPerServing,
		&record.Nutrition.ProteinG,
		&record.Nutrition.CarbsG,
		&record.Nutrition.FatG,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get food: %w", err)
	}

	record.CreatedAt = parseTimestamp(createdAt)
	return &record, nil
}

// MealEntry is one logged food serving.
type MealEntry struct {
	ID               int64
	UserID           int64
	FoodID           int64
	QuantityServings float64
	MealType         string
	Source           string
	EntryDate        string
	CreatedAt        time.Time
}

// InsertMealEntry records one consumed serving count for a food and
// returns the entry's row ID. The entry date is YYYY-MM-DD.
func (s *Store) InsertMealEntry(ctx context.Context, entry MealEntry) (int64, error) {
	switch entry.MealType {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMealType, entry.MealType)
	}
	switch entry.Source {
	case SourceMenu, SourceReceipt, SourceManual:
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSource, entry.Source)
	}

	query := `
	INSERT INTO meal_entries (user_id, food_id, quantity_servings, meal_type, source, entry_date)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		entry.UserID,
		entry.FoodID,
		entry.QuantityServings,
		entry.MealType,
		entry.Source,
		entry.EntryDate,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert meal entry: %w", err)
	}
	return result.LastInsertId()
}

// MealEntriesForDate retrieves a user's meal entries for one
// YYYY-MM-DD date, newest first.
func (s *Store) MealEntriesForDate(ctx context.Context, userID int64, date string) ([]MealEntry, error) {
	query := `
	SELECT id, user_id, food_id, quantity_servings, meal_type, source, entry_date, created_at
	FROM meal_entries
	WHERE user_id = ? AND entry_date = ?
	ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal entries: %w", err)
	}
	defer rows.Close()

	var entries []MealEntry
	for rows.Next() {
		var entry MealEntry
		var createdAt string
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.FoodID,
			&entry.QuantityServings,
			&entry.MealType,
			&entry.Source,
			&entry.EntryDate,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan meal entry: %w", err)
		}
		entry.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SaveScrapeReport archives a complete scrape envelope as JSON. The
// scrape date is the MM-DD-YYYY menu date the run covered.
func (s *Store) SaveScrapeReport(ctx context.Context, scrapeDate string, report *model.ScrapeReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO scrape_reports (scrape_date, total_locations, total_food_items, report_json)
	VALUES (?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query,
		scrapeDate,
		report.TotalLocations,
		report.TotalFoodItems,
		string(reportJSON),
	); err != nil {
		return fmt.Errorf("failed to save scrape report: %w", err)
	}
	return nil
}

// LatestScrapeReport retrieves the most recent archived report for a
// MM-DD-YYYY scrape date. Returns nil when no run covered that date.
func (s *Store) LatestScrapeReport(ctx context.Context, scrapeDate string) (*model.ScrapeReport, error) {
	query := `
	SELECT report_json FROM scrape_reports
	WHERE scrape_date = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := s.db.QueryRowContext(ctx, query, scrapeDate).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scrape report: %w", err)
	}

	var report model.ScrapeReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// timestampFormats contains the timestamp formats that SQLite may
// return. The order matters: more specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending
// on configuration. Returns zero time if no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
