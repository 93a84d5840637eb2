// Package config provides configuration structures and utilities for the
// nutrition ingestion pipeline. It defines the scrape and receipt options,
// loads the optional .nutritiontracker YAML file, and resolves default
// data directories.
package config
