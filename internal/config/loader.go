package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".nutritiontracker"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .nutritiontracker configuration
// file. Every field is optional; unset fields keep their defaults.
type File struct {
	// Locations is the list of dining locations to scrape.
	Locations []string `yaml:"locations,omitempty"`

	// MenuAPIBaseURL overrides the dining menu API root URL.
	MenuAPIBaseURL string `yaml:"menuApiBaseUrl,omitempty"`

	// NutritionSearchURL overrides the nutrition search site root URL.
	NutritionSearchURL string `yaml:"nutritionSearchUrl,omitempty"`

	// Concurrency overrides the worker-pool ceiling. Zero keeps the default.
	Concurrency int `yaml:"concurrency,omitempty"`
}

// LoadConfigFile loads configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound; callers
// decide whether that is fatal based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. .nutritiontracker in the current directory
//  3. .nutritiontracker in the user's home directory
//
// Returns the path if found, or an empty string.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply overlays file values onto the config. Only set fields override.
func (cf *File) Apply(c *Config) {
	if len(cf.Locations) > 0 {
		c.Locations = cf.Locations
	}
	if cf.MenuAPIBaseURL != "" {
		c.MenuAPIBaseURL = cf.MenuAPIBaseURL
	}
	if cf.NutritionSearchURL != "" {
		c.NutritionSearchURL = cf.NutritionSearchURL
	}
	if cf.Concurrency > 0 {
		c.Concurrency = cf.Concurrency
	}
}

// LoadEnv loads a .env file from the working directory if present and
// overlays recognized NUTRITION_* variables onto the config. A missing
// .env file is not an error; process environment alone still applies.
func LoadEnv(c *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("NUTRITION_MENU_API"); v != "" {
		c.MenuAPIBaseURL = v
	}
	if v := os.Getenv("NUTRITION_SEARCH_URL"); v != "" {
		c.NutritionSearchURL = v
	}
	if v := os.Getenv("NUTRITION_DB_DIR"); v != "" {
		c.DBDir = v
	}
	if v := os.Getenv("NUTRITION_TESSERACT"); v != "" {
		c.TesseractPath = v
	}
}
