// Package main provides the entry point for the NutritionTracker CLI.
//
// NutritionTracker scrapes campus dining menus, resolves per-serving
// nutrition facts, and parses grocery receipts into logged meals.
//
// Usage:
//
//	nutritiontracker scan
//	nutritiontracker scan --date 01-15-2026 --markdown
//	nutritiontracker receipt photo.jpg --log
//
// See --help for all available options.
package main

// main is the entry point for NutritionTracker.
func main() {
	Execute()
}
